// registers.go names the fixed scratch registers the code generator uses. There is no register
// allocation (§4.4): every operation reads its operands from their stack slots into one of these,
// computes, and writes the result straight back to memory.

package x86

// Scratch registers used to stage operands and results. %rax additionally carries a function's
// return value and the dividend/quotient of idivq, per the System-V calling convention.
const (
	scratch1 = "%r10"
	scratch2 = "%r11"
	accum    = "%rax"
)

// argRegs holds the first six integer argument registers in System-V order.
var argRegs = [6]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}
