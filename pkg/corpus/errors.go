package corpus

import (
	"fmt"
	"strings"

	"github.com/rulebookdev/rulebook/pkg/document"
)

// DuplicateNameError reports two or more documents of the same class
// declaring the same name. It carries every offending path so the
// operator can reconcile the divergent copies; the loader never picks
// one silently.
type DuplicateNameError struct {
	Class document.Class
	Name  string
	Paths []string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name %q declared in %s",
		e.Class, e.Name, strings.Join(e.Paths, ", "))
}
