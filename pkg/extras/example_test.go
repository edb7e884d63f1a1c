package extras_test

import (
	"fmt"

	"github.com/matzehuels/extrasrequire/pkg/extras"
)

func ExampleValidateRequirements() {
	reqs, err := extras.ValidateRequirements([]string{"pytest-cov", "pytest >=2.7.3", "faker"})
	if err != nil {
		panic(err)
	}
	for _, r := range reqs {
		fmt.Println(r)
	}
	// Output:
	// faker
	// pytest>=2.7.3
	// pytest-cov
}

func ExampleMakeNodeContent() {
	fmt.Print(extras.MakeNodeContent([]string{"sphinx>=3.0"}, "FooBar", "docs", "package"))
	// Output:
	// This package has the following additional requirement:
	//
	// .. code-block:: text
	//
	//     sphinx>=3.0
	//
	// These can be installed as follows:
	//
	//     .. code-block:: bash
	//
	//         $ python -m pip install FooBar[docs]
}
