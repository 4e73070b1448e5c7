package bridge

// fanState is the last published picture of one fan entity, kept to suppress
// redundant retained publishes.
type fanState struct {
	state      string
	preset     string
	percentage string
	attributes string
}
