package sources_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/extrasrequire/pkg/sources"
)

func ExampleFromSetupCfg() {
	root, err := os.MkdirTemp("", "sources-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(root)

	cfg := "[options.extras_require]\ntest =\n    pytest >=2.7.3\n    pytest-cov\n"
	if err := os.WriteFile(filepath.Join(root, "setup.cfg"), []byte(cfg), 0o644); err != nil {
		panic(err)
	}

	env := &sources.Env{SrcDir: filepath.Join(root, "doc-source")}
	reqs, err := sources.FromSetupCfg(env.PackageDir(), sources.Options{"setup.cfg": "true"}, env, "test")
	if err != nil {
		panic(err)
	}
	for _, r := range reqs {
		fmt.Println(r)
	}
	// Output:
	// pytest >=2.7.3
	// pytest-cov
}

func ExampleNames() {
	fmt.Println(sources.Names())
	// Output:
	// [file setup.cfg flit pyproject]
}
