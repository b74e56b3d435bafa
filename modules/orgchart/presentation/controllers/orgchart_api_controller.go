package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/modules/orgchart/presentation/mappers"
	"github.com/provia-hq/provia/modules/orgchart/presentation/viewmodels"
	"github.com/provia-hq/provia/modules/orgchart/services"
	"github.com/provia-hq/provia/pkg/httpapi"
)

type OrgchartAPIController struct {
	trees     *services.TreeService
	apiPrefix string
}

func NewOrgchartAPIController(trees *services.TreeService) *OrgchartAPIController {
	return &OrgchartAPIController{
		trees:     trees,
		apiPrefix: "/orgchart/api",
	}
}

func (c *OrgchartAPIController) Key() string {
	return c.apiPrefix
}

func (c *OrgchartAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/trees", c.ListTrees).Methods(http.MethodGet)
	api.HandleFunc("/trees", c.CreateTree).Methods(http.MethodPost)
	api.HandleFunc("/trees/{treeId}", c.GetTree).Methods(http.MethodGet)
	api.HandleFunc("/trees/{treeId}", c.DeleteTree).Methods(http.MethodDelete)
	api.HandleFunc("/trees/{treeId}/tree", c.GetTreeView).Methods(http.MethodGet)

	api.HandleFunc("/trees/{treeId}/nodes", c.AddNode).Methods(http.MethodPost)
	api.HandleFunc("/trees/{treeId}/nodes/{nodeId}", c.UpdateNode).Methods(http.MethodPatch)
	api.HandleFunc("/trees/{treeId}/nodes/{nodeId}", c.RemoveNode).Methods(http.MethodDelete)
	api.HandleFunc("/trees/{treeId}/nodes/{nodeId}:move", c.MoveNode).Methods(http.MethodPost)
	api.HandleFunc("/trees/{treeId}/nodes/{nodeId}:reorder", c.ReorderChildren).Methods(http.MethodPost)
}

type createTreeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *OrgchartAPIController) CreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := c.trees.CreateTree(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.TreeToSummary(t))
}

func (c *OrgchartAPIController) ListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := c.trees.ListTrees(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summaries := make([]viewmodels.TreeSummary, 0, len(trees))
	for _, t := range trees {
		summaries = append(summaries, mappers.TreeToSummary(t))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, summaries)
}

func (c *OrgchartAPIController) GetTree(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	t, err := c.trees.GetTree(r.Context(), treeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.TreeToDetail(t))
}

// GetTreeView serves only the depth-annotated node list, without the
// summary envelope GetTree wraps around it.
func (c *OrgchartAPIController) GetTreeView(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	t, err := c.trees.GetTree(r.Context(), treeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.TreeToDetail(t).Nodes)
}

func (c *OrgchartAPIController) DeleteTree(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	if err := c.trees.DeleteTree(r.Context(), treeID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addNodeRequest struct {
	Name        string                     `json:"name"`
	Kind        string                     `json:"kind"`
	ParentID    *uuid.UUID                 `json:"parent_id"`
	Description string                     `json:"description"`
	Email       string                     `json:"email"`
	Phone       string                     `json:"phone"`
	Provisions  *viewmodels.ProvisionRates `json:"provisions"`
	Position    *viewmodels.Position       `json:"position"`
}

func (c *OrgchartAPIController) AddNode(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	var req addNodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := services.AddNodeInput{
		Name:        req.Name,
		Kind:        tree.NodeKind(req.Kind),
		ParentID:    req.ParentID,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if req.Provisions != nil {
		in.Provisions = &tree.ProvisionRates{
			Bank:       req.Provisions.Bank,
			Insurance:  req.Provisions.Insurance,
			RealEstate: req.Provisions.RealEstate,
		}
	}
	if req.Position != nil {
		in.Position = &tree.Position{X: req.Position.X, Y: req.Position.Y}
	}

	nodeID, err := c.trees.AddNode(r.Context(), treeID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type addNodeResponse struct {
		ID uuid.UUID `json:"id"`
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, addNodeResponse{ID: nodeID})
}

type updateNodeRequest struct {
	Name        *string                    `json:"name"`
	Description *string                    `json:"description"`
	Kind        *string                    `json:"kind"`
	Email       *string                    `json:"email"`
	Phone       *string                    `json:"phone"`
	Provisions  *viewmodels.ProvisionRates `json:"provisions"`
	Position    *viewmodels.Position       `json:"position"`
	Expanded    *bool                      `json:"expanded"`
	Visible     *bool                      `json:"visible"`
}

func (c *OrgchartAPIController) UpdateNode(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}
	var req updateNodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	update := tree.NodeUpdate{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
		Expanded:    req.Expanded,
		Visible:     req.Visible,
	}
	if req.Kind != nil {
		kind := tree.NodeKind(*req.Kind)
		update.Kind = &kind
	}
	if req.Provisions != nil {
		update.Provisions = &tree.ProvisionRates{
			Bank:       req.Provisions.Bank,
			Insurance:  req.Provisions.Insurance,
			RealEstate: req.Provisions.RealEstate,
		}
	}
	if req.Position != nil {
		update.Position = &tree.Position{X: req.Position.X, Y: req.Position.Y}
	}

	if err := c.trees.UpdateNode(r.Context(), treeID, nodeID, update); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *OrgchartAPIController) RemoveNode(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}
	if err := c.trees.RemoveNode(r.Context(), treeID, nodeID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveNodeRequest struct {
	NewParentID uuid.UUID `json:"new_parent_id"`
}

func (c *OrgchartAPIController) MoveNode(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}
	var req moveNodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := c.trees.MoveNode(r.Context(), treeID, nodeID, req.NewParentID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderChildrenRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

// ReorderChildren reorders the children of the node in the path; the body
// carries the full permutation of its child ids.
func (c *OrgchartAPIController) ReorderChildren(w http.ResponseWriter, r *http.Request) {
	treeID, ok := pathUUID(w, r, "treeId")
	if !ok {
		return
	}
	parentID, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}
	var req reorderChildrenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := c.trees.ReorderChildren(r.Context(), treeID, parentID, req.OrderedIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
