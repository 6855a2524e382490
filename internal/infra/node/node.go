package node

import (
	"sync"

	"github.com/google/uuid"
)

// Node describes the running process.
type Node struct {
	ID         string
	Version    string
	CommitHash string
}

// Set at build time with -ldflags "-X ocs-acceptance/internal/infra/node.Version=...".
var Version = "development"
var CommitHash = "unknown"

var (
	nodeID     string
	nodeIDOnce sync.Once
)

func GetNodeInfo() *Node {
	return &Node{
		ID:         getNodeID(),
		Version:    Version,
		CommitHash: CommitHash,
	}
}

func getNodeID() string {
	nodeIDOnce.Do(func() {
		nodeID = uuid.New().String()
	})
	return nodeID
}
