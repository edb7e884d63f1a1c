package extras

import (
	"context"
	"time"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/observability"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// contentSource names the directive body in hook events.
const contentSource = "content"

// GetRequirements selects the single requirement source of a directive,
// resolves it and validates the result.
//
// The source count includes a non-empty body and every table option given
// with a truthy value; anything other than exactly one is an error. The
// table is then scanned in order and the first option present wins; the
// body is used only when no table option is present.
func GetRequirements(ctx context.Context, env *sources.Env, extra string, opts sources.Options, content []string) ([]string, error) {
	n := 0
	if len(content) > 0 {
		n++
	}
	for _, src := range sources.Table {
		if opts.Has(src.Option) && opts.Truthy(src.Option) {
			n++
		}
	}
	switch {
	case n > 1:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "Please specify only one source for the extra requirements")
	case n == 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "Please specify a source for the extra requirements %s", extra)
	}

	name := contentSource
	resolve := func() ([]string, error) { return content, nil }
	for _, src := range sources.Table {
		if opts.Has(src.Option) {
			name = src.Option
			resolve = func() ([]string, error) {
				return src.Resolve(env.PackageDir(), opts, env, extra)
			}
			break
		}
	}

	start := time.Now()
	requirements, err := resolve()
	observability.Directive().OnResolve(ctx, name, extra, len(requirements), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return ValidateRequirements(requirements)
}
