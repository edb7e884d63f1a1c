package extras

import (
	"fmt"
	"strings"
)

const nodeTemplate = `This %s has the following additional requirement%s:

.. code-block:: text

%s

These can be installed as follows:

	.. code-block:: bash

		$ python -m pip install %s[%s]

`

// MakeNodeContent returns the reStructuredText body of a notice.
// scope names the documented unit, e.g. "module" or "package".
func MakeNodeContent(requirements []string, packageName, extra, scope string) string {
	indented := make([]string, len(requirements))
	for i, r := range requirements {
		indented[i] = "    " + r
	}

	plural := "s"
	if len(requirements) == 1 {
		plural = ""
	}

	content := fmt.Sprintf(nodeTemplate, scope, plural, strings.Join(indented, "\n"), packageName, extra)
	return strings.ReplaceAll(content, "\t", "    ")
}
