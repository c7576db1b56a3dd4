package logging

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rs/zerolog"
)

// NodeID identifies the shared logger node.
const NodeID graft.ID = "logging.logger"

func init() {
	graft.Register(graft.Node[zerolog.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (zerolog.Logger, error) {
			return Logger(), nil
		},
	})
}
