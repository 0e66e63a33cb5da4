package tests

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type oracleResponse struct {
	response string
	err      error
}

type mockOracle struct {
	mu             sync.Mutex
	pingErr        error
	responsesQueue []oracleResponse
}

func (m *mockOracle) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockOracle) Infer(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.responsesQueue) == 0 {
		return "", errors.New("no scripted response left")
	}

	res := m.responsesQueue[0]
	m.responsesQueue = m.responsesQueue[1:]
	return res.response, res.err
}
