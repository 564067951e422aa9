package ports

// ConfirmPort asks the operator a yes/no question. Used only by the manual
// fix mode; this is the one intentionally blocking step in the pipeline.
type ConfirmPort interface {
	Confirm(prompt string) (bool, error)
}
