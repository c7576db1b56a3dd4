package layout

import (
	"context"
	"strings"

	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/process"
)

const suffixScript = "import sysconfig; print(sysconfig.get_config_var('EXT_SUFFIX') or sysconfig.get_config_var('SO') or '')"

// QuerySuffix asks the interpreter at python for its extension module suffix.
func QuerySuffix(ctx context.Context, r process.Runner, python string) (string, error) {
	res, err := r.Run(ctx, process.Command{Name: python, Args: []string{"-c", suffixScript}})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to run interpreter"), "python", python)
	}
	if !res.Success() {
		return "", zerr.With(zerr.New("interpreter could not report its extension suffix"), "exit_code", res.ExitCode)
	}
	suffix := strings.TrimSpace(string(res.Stdout))
	if suffix == "" || suffix == "None" {
		return "", zerr.With(zerr.New("interpreter reported no extension suffix"), "python", python)
	}
	return suffix, nil
}
