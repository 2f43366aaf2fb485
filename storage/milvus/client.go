package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

const connectTimeout = 10 * time.Second

// Connect 连接 Milvus，超过 10s 视为不可用
func Connect(ctx context.Context, addr string) (client.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cli, err := client.NewClient(connectCtx, client.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("%w: connect milvus %s: %v", types.ErrVectorStoreUnavailable, addr, err)
	}
	logging.New("milvus").Info("connected", "addr", addr)
	return cli, nil
}
