// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"clr": Run,
	}))
}

// TestCLI runs the end-to-end scripts in testdata/script against the clr binary.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("CLR_CACHE_DIR", filepath.Join(env.WorkDir, ".cache"))
			env.Setenv("CLR_ROOT", "")
			return nil
		},
	})
}
