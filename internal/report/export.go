package report

import (
	"github.com/dustin/go-humanize"

	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/persist"
)

// Export writes the transcript to path. A failure is printed as a warning and
// returned; callers must not treat it as a failed run.
func Export(out *output.Writer, store persist.Store, path, transcript string) error {
	if err := store.Write(path, transcript); err != nil {
		out.Warning("Exporting to file %s failed.\n%v", out.CyanQuoted(path), err)
		return err
	}
	out.Info("Exported results to file %s. (%s)", out.CyanQuoted(path),
		humanize.Bytes(uint64(len(transcript))))
	return nil
}
