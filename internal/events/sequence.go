package events

import (
	"context"
	"fmt"
	"sync"
)

// SequenceRepository hands out monotonically increasing sequence numbers per
// partition key, used to order relayed events per cart.
type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type memorySequences struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewMemorySequences returns an in-process SequenceRepository. Sequences
// restart at 1 when the process does, which matches the non-durable store.
func NewMemorySequences() SequenceRepository {
	return &memorySequences{last: make(map[string]int64)}
}

func (r *memorySequences) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[partitionKey]++
	return r.last[partitionKey], nil
}
