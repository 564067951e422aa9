package ports

// PayloadPort turns a fetched workspace into the text payload sent to the
// oracle (recipe and auxiliary files inlined up to a size cap).
type PayloadPort interface {
	BuildPayload(workspace string) (string, error)
}
