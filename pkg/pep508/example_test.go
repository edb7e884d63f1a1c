package pep508_test

import (
	"fmt"

	"github.com/matzehuels/extrasrequire/pkg/pep508"
)

func ExampleParse() {
	r, err := pep508.Parse(`requests [socks, security] >= 2.8.1 ; python_version<'3.8'`)
	if err != nil {
		panic(err)
	}
	fmt.Println(r.Name)
	fmt.Println(r.Extras)
	fmt.Println(r)
	// Output:
	// requests
	// [socks security]
	// requests[security,socks]>=2.8.1; python_version < "3.8"
}

func ExampleNormalizeName() {
	fmt.Println(pep508.NormalizeName("Django_Extensions"))
	fmt.Println(pep508.NormalizeName("zope.interface"))
	// Output:
	// django-extensions
	// zope-interface
}
