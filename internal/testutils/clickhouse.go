// Package testutils holds shared test doubles used across packages.
package testutils

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing. The embedded
// interface panics on anything a test does not exercise.
type MockClickHouseConn struct {
	driver.Conn

	QueryErr error
	RowsErr  error             // reported by rows.Err() after iteration
	RowSets  [][][]interface{} // consumed one set per Query call

	mu      sync.Mutex
	Batches []*MockBatch
	queries int
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows [][]interface{}
	if m.queries < len(m.RowSets) {
		rows = m.RowSets[m.queries]
	}
	m.queries++
	return &MockRows{rows: rows, err: m.RowsErr}, nil
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := &MockBatch{}
	m.Batches = append(m.Batches, batch)
	return batch, nil
}

func (m *MockClickHouseConn) Ping(ctx context.Context) error {
	return nil
}

// AppendedRows counts rows across all batches that were sent.
func (m *MockClickHouseConn) AppendedRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.Batches {
		if b.Sent() {
			total += b.Rows()
		}
	}
	return total
}

// MockBatch implements driver.Batch and records appended rows.
type MockBatch struct {
	mu       sync.Mutex
	appended [][]interface{}
	sent     bool

	AppendErr error
	SendErr   error
}

func (m *MockBatch) Append(v ...interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error { return nil }

func (m *MockBatch) Column(int) driver.BatchColumn { return nil }

func (m *MockBatch) IsSent() bool { return m.Sent() }

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended)
}

func (m *MockBatch) Send() error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = true
	return nil
}

func (m *MockBatch) Flush() error { return nil }

func (m *MockBatch) Abort() error { return nil }

func (m *MockBatch) Sent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

// MockRows implements driver.Rows over a fixed value grid.
type MockRows struct {
	rows [][]interface{}
	idx  int
	err  error
}

func (m *MockRows) Next() bool {
	if m.idx >= len(m.rows) {
		return false
	}
	m.idx++
	return true
}

func (m *MockRows) Scan(dest ...interface{}) error {
	row := m.rows[m.idx-1]
	for i, d := range dest {
		if i >= len(row) {
			break
		}
		switch v := d.(type) {
		case *string:
			*v = row[i].(string)
		case *int32:
			*v = row[i].(int32)
		case *int:
			*v = row[i].(int)
		case *float64:
			*v = row[i].(float64)
		}
	}
	return nil
}

func (m *MockRows) ScanStruct(dest interface{}) error { return nil }

func (m *MockRows) Close() error { return nil }

func (m *MockRows) Err() error { return m.err }

func (m *MockRows) Columns() []string { return nil }

func (m *MockRows) ColumnTypes() []driver.ColumnType { return nil }

func (m *MockRows) Totals(dest ...interface{}) error { return nil }
