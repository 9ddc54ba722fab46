//go:build unit
// +build unit

package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

// checkedPackages handle secret values or padding blocks.
var checkedPackages = []string{
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint",
	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey",
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography",
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography/pkcs1",
	"github.com/MGTheTrain/rsa-engine/internal/pkg/randutil",
}

func loadCheckedPackages(t *testing.T) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, checkedPackages...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("checked packages have errors")
	}
	if len(pkgs) != len(checkedPackages) {
		t.Fatalf("loaded %d packages, want %d", len(pkgs), len(checkedPackages))
	}
	return pkgs
}
