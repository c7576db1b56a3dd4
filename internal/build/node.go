package build

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rs/zerolog"

	"github.com/vocaltractlab/vtlbuild/internal/logging"
	"github.com/vocaltractlab/vtlbuild/internal/process"
)

// NodeID identifies the Builder node.
const NodeID graft.ID = "build.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{process.NodeID, logging.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			r, err := graft.Dep[process.Runner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[zerolog.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(r, log), nil
		},
	})
}
