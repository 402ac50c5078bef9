package diagnose

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"firerules/internal/diag"
	"firerules/internal/syntax"
)

// SupportedVersions is the rules_version range the analyzer understands.
const SupportedVersions = ">= 1, < 3"

var supportedConstraint = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// Version checks the rules_version header. An unparsable value is an error,
// a well-formed but unsupported one a warning. A document without a header
// produces nothing.
func Version(root *syntax.Node, src []byte) []diag.Diagnostic {
	if root == nil {
		return nil
	}
	for _, c := range root.Children() {
		if c.Kind() != syntax.KindRulesVersion {
			continue
		}
		str := c.ChildByFieldName(syntax.FieldVersion)
		if str == nil || str.IsMissing() {
			return nil
		}
		raw := strings.Trim(str.Content(src), `'"`)
		v, err := semver.NewVersion(raw)
		if err != nil {
			return []diag.Diagnostic{
				diag.NewError(diag.SynInvalidVersion, str.Span(), fmt.Sprintf("Invalid rules_version %q", raw)),
			}
		}
		if !supportedConstraint.Check(v) {
			return []diag.Diagnostic{
				diag.NewWarning(diag.SynUnsupportedVers, str.Span(),
					fmt.Sprintf("Unsupported rules_version %q (supported: %s)", raw, SupportedVersions)),
			}
		}
		return nil
	}
	return nil
}
