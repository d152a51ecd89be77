package isa

// Register name constants for the subset the syscall marshaller and the
// J-type link-register rule need by name rather than by raw index.
const (
	RegZero = 0
	RegAT   = 1
	RegV0   = 2
	RegV1   = 3
	RegA0   = 4
	RegA1   = 5
	RegA2   = 6
	RegA3   = 7
	RegGP   = 28
	RegSP   = 29
	RegFP   = 30
	RegRA   = 31
)
