package check

import (
	"log/slog"

	"github.com/weberc2/xcheck/pkg/directory"
	"github.com/weberc2/xcheck/pkg/layout"
	"github.com/weberc2/xcheck/pkg/logger"
	"github.com/weberc2/xcheck/pkg/usage"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Context is the state shared by the checks of one run. The usage table is
// the only part the checks mutate.
type Context struct {
	Decoder    *layout.Decoder
	Superblock *Superblock
	Usage      *usage.Table
	Logger     *slog.Logger

	references *directory.References
}

func NewContext(decoder *layout.Decoder, log *slog.Logger) *Context {
	if log == nil {
		log = logger.Discard()
	}
	sb := decoder.Superblock()
	return &Context{
		Decoder:    decoder,
		Superblock: sb,
		Usage:      usage.New(sb.Size),
		Logger:     log,
	}
}

// References returns the image-wide directory reference index, building it
// on first use.
func (c *Context) References() (*directory.References, error) {
	if c.references == nil {
		refs, err := directory.IndexReferences(c.Decoder)
		if err != nil {
			return nil, err
		}
		c.references = refs
		c.Logger.Debug("indexed directory references")
	}
	return c.references, nil
}
