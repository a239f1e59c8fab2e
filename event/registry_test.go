package event

import "testing"

// TestRegistryIDsAreUnique guards the append-only id assignment promise: if
// a future variant is added with a reused id, this test catches it.
func TestRegistryIDsAreUnique(t *testing.T) {
	seen := map[ID]string{
		IDDisconnect:     "Disconnect",
		IDWorkerBatch:    "WorkerBatch",
		IDBatchCertified: "BatchCertified",
	}
	if len(seen) != 3 {
		t.Fatalf("duplicate id detected across the registry: %v", seen)
	}
}
