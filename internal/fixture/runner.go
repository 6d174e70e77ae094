package fixture

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
)

// ForTest opens a scope that closes when t finishes. Teardown failures fail
// the test.
func ForTest(t testing.TB, reg *Registry, src HandleSource) *Scope {
	t.Helper()
	scope := reg.NewScope(context.Background(), src)
	t.Cleanup(func() {
		if err := scope.Close(); err != nil {
			t.Errorf("fixture teardown: %v", err)
		}
	})
	return scope
}

// ForSpec opens a scope that closes when the current ginkgo spec finishes.
// It must be called from a setup or subject node.
func ForSpec(reg *Registry, src HandleSource) *Scope {
	scope := reg.NewScope(context.Background(), src)
	ginkgo.DeferCleanup(scope.Close)
	return scope
}
