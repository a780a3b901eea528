package pargrid

// Tile is the sub-rectangle of the global grid owned by one rank, with its
// physical extents and the global index of its (0,0) cell.
type Tile struct {
	Nx, Ny         int
	Lx, Ly         float64
	XStart, YStart int
}

// Split1D divides n grid points among p coordinates. The base size is n/p
// and the first n%p coordinates carry one extra point, so sizes along any
// dimension sum to n and cover it without overlap.
func Split1D(coord, p, n int) (size, start int) {
	var (
		base = n / p
		rem  = n % p
	)
	if coord < rem {
		size = base + 1
		start = size * coord
	} else {
		size = base
		start = (base+1)*rem + base*(coord-rem)
	}
	return
}

// SplitGrid computes the rank's tile for a global grid of Nx x Ny points
// over an Lx x Ly domain. The x direction splits along the row communicator
// coordinate, the y direction along the column communicator coordinate.
func SplitGrid(cart *Cart, globalNx, globalNy int, globalLx, globalLy float64) (t Tile) {
	t.Nx, t.XStart = Split1D(cart.RowRank, cart.P, globalNx)
	t.Ny, t.YStart = Split1D(cart.ColRank, cart.P, globalNy)
	if globalNx > 0 {
		t.Lx = globalLx * float64(t.Nx) / float64(globalNx)
	}
	if globalNy > 0 {
		t.Ly = globalLy * float64(t.Ny) / float64(globalNy)
	}
	return
}
