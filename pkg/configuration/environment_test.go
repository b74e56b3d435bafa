package configuration

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))

	c := &Configuration{}
	if err := c.load(nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	defer c.Unload()

	if c.Tree.MaxDepth != 10 {
		t.Fatalf("expected default tree max depth 10, got %d", c.Tree.MaxDepth)
	}
	if c.Billing.DefaultVATRate != 19 {
		t.Fatalf("expected default VAT rate 19, got %v", c.Billing.DefaultVATRate)
	}
	if c.SocketAddress != "localhost:3200" {
		t.Fatalf("unexpected socket address: %s", c.SocketAddress)
	}
	if c.Logger() == nil {
		t.Fatal("expected logger to be configured")
	}
}

func TestLoadRejectsInvalidMaxDepth(t *testing.T) {
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))
	t.Setenv("TREE_MAX_DEPTH", "0")

	c := &Configuration{}
	if err := c.load(nil); err == nil {
		t.Fatal("expected error for TREE_MAX_DEPTH=0")
	}
}

func TestLoadRejectsInvalidVATRate(t *testing.T) {
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))
	t.Setenv("BILLING_DEFAULT_VAT_RATE", "250")

	c := &Configuration{}
	if err := c.load(nil); err == nil {
		t.Fatal("expected error for BILLING_DEFAULT_VAT_RATE=250")
	}
}
