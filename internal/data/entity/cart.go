package entity

// Cart is created empty at registration and owned by exactly one user.
// Its contents are managed by the cart subsystem, not here.
type Cart struct {
	BaseSimple
}
