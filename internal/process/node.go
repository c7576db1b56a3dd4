package process

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rs/zerolog"

	"github.com/vocaltractlab/vtlbuild/internal/logging"
)

// NodeID identifies the Runner node.
const NodeID graft.ID = "process.runner"

func init() {
	graft.Register(graft.Node[Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logging.NodeID},
		Run: func(ctx context.Context) (Runner, error) {
			log, err := graft.Dep[zerolog.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecRunner(log), nil
		},
	})
}
