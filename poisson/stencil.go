package poisson

import "github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"

// ApplyOperator computes out = A in, the five-point negative Laplacian, over
// every cell of the tile that is not on the global boundary. Global-boundary
// cells are left untouched; they carry the zero Dirichlet residual that
// ImposeBC installs.
//
// The sweep is ordered to hide communication latency: the four edge strips
// go out first, the strictly interior cells (which need no neighbour data)
// are computed while the sends are in flight, then the receives are drained
// and the tile edges and corners are finished from the halo buffers. The
// sends are completed before returning so the halo buffers can be reused.
func (s *Solver) ApplyOperator(in, out []float64) {
	var (
		Nx, Ny = s.Nx, s.Ny
		dx2i   = 1.0 / s.dx / s.dx
		dy2i   = 1.0 / s.dy / s.dy
		c      = s.cart
		h      = s.halo
	)
	idx := func(i, j int) int { return j*Nx + i }

	h.Start(in)

	for j := 1; j < Ny-1; j++ {
		for i := 1; i < Nx-1; i++ {
			out[idx(i, j)] = (-in[idx(i-1, j)]+2.0*in[idx(i, j)]-in[idx(i+1, j)])*dx2i +
				(-in[idx(i, j-1)]+2.0*in[idx(i, j)]-in[idx(i, j+1)])*dy2i
		}
	}

	h.Receive()

	switch {
	case Nx == 1 && Ny == 1:
		// A single-cell tile needs all four neighbour strips; if any side
		// is the global boundary the cell is a boundary cell and stays
		// untouched.
		if !c.OnBoundary() {
			out[0] = (-h.Left[0]+2.0*in[0]-h.Right[0])*dx2i +
				(-h.Bottom[0]+2.0*in[0]-h.Top[0])*dy2i
		}

	case Nx == 1:
		// Column tile: every cell is both a left and a right edge. A null
		// left or right neighbour puts the whole column on the global
		// boundary, imposed elsewhere.
		if c.Left != pargrid.ProcNull && c.Right != pargrid.ProcNull {
			for j := 1; j < Ny-1; j++ {
				out[j] = (-h.Left[j]+2.0*in[j]-h.Right[j])*dx2i +
					(-in[j-1]+2.0*in[j]-in[j+1])*dy2i
			}
			if c.Bottom != pargrid.ProcNull {
				out[0] = (-h.Left[0]+2.0*in[0]-h.Right[0])*dx2i +
					(-h.Bottom[0]+2.0*in[0]-in[1])*dy2i
			}
			if c.Top != pargrid.ProcNull {
				out[Ny-1] = (-h.Left[Ny-1]+2.0*in[Ny-1]-h.Right[Ny-1])*dx2i +
					(-in[Ny-2]+2.0*in[Ny-1]-h.Top[0])*dy2i
			}
		}

	case Ny == 1:
		// Row tile, mirror of the column case.
		if c.Top != pargrid.ProcNull && c.Bottom != pargrid.ProcNull {
			for i := 1; i < Nx-1; i++ {
				out[i] = (-in[i-1]+2.0*in[i]-in[i+1])*dx2i +
					(-h.Bottom[i]+2.0*in[i]-h.Top[i])*dy2i
			}
			if c.Left != pargrid.ProcNull {
				out[0] = (-h.Left[0]+2.0*in[0]-in[1])*dx2i +
					(-h.Bottom[0]+2.0*in[0]-h.Top[0])*dy2i
			}
			if c.Right != pargrid.ProcNull {
				out[Nx-1] = (-in[Nx-2]+2.0*in[Nx-1]-h.Right[0])*dx2i +
					(-h.Bottom[Nx-1]+2.0*in[Nx-1]-h.Top[Nx-1])*dy2i
			}
		}

	default:
		// Tile edges, skipping any edge that coincides with the global
		// boundary.
		if c.Bottom != pargrid.ProcNull {
			for i := 1; i < Nx-1; i++ {
				out[idx(i, 0)] = (-in[idx(i-1, 0)]+2.0*in[idx(i, 0)]-in[idx(i+1, 0)])*dx2i +
					(-h.Bottom[i]+2.0*in[idx(i, 0)]-in[idx(i, 1)])*dy2i
			}
		}
		if c.Top != pargrid.ProcNull {
			for i := 1; i < Nx-1; i++ {
				out[idx(i, Ny-1)] = (-in[idx(i-1, Ny-1)]+2.0*in[idx(i, Ny-1)]-in[idx(i+1, Ny-1)])*dx2i +
					(-in[idx(i, Ny-2)]+2.0*in[idx(i, Ny-1)]-h.Top[i])*dy2i
			}
		}
		if c.Left != pargrid.ProcNull {
			for j := 1; j < Ny-1; j++ {
				out[idx(0, j)] = (-h.Left[j]+2.0*in[idx(0, j)]-in[idx(1, j)])*dx2i +
					(-in[idx(0, j-1)]+2.0*in[idx(0, j)]-in[idx(0, j+1)])*dy2i
			}
		}
		if c.Right != pargrid.ProcNull {
			for j := 1; j < Ny-1; j++ {
				out[idx(Nx-1, j)] = (-in[idx(Nx-2, j)]+2.0*in[idx(Nx-1, j)]-h.Right[j])*dx2i +
					(-in[idx(Nx-1, j-1)]+2.0*in[idx(Nx-1, j)]-in[idx(Nx-1, j+1)])*dy2i
			}
		}

		// Corners last: each uses values from two neighbour strips.
		if c.Bottom != pargrid.ProcNull && c.Left != pargrid.ProcNull {
			out[idx(0, 0)] = (-h.Left[0]+2.0*in[idx(0, 0)]-in[idx(1, 0)])*dx2i +
				(-h.Bottom[0]+2.0*in[idx(0, 0)]-in[idx(0, 1)])*dy2i
		}
		if c.Bottom != pargrid.ProcNull && c.Right != pargrid.ProcNull {
			out[idx(Nx-1, 0)] = (-in[idx(Nx-2, 0)]+2.0*in[idx(Nx-1, 0)]-h.Right[0])*dx2i +
				(-h.Bottom[Nx-1]+2.0*in[idx(Nx-1, 0)]-in[idx(Nx-1, 1)])*dy2i
		}
		if c.Top != pargrid.ProcNull && c.Left != pargrid.ProcNull {
			out[idx(0, Ny-1)] = (-h.Left[Ny-1]+2.0*in[idx(0, Ny-1)]-in[idx(1, Ny-1)])*dx2i +
				(-in[idx(0, Ny-2)]+2.0*in[idx(0, Ny-1)]-h.Top[0])*dy2i
		}
		if c.Top != pargrid.ProcNull && c.Right != pargrid.ProcNull {
			out[idx(Nx-1, Ny-1)] = (-in[idx(Nx-2, Ny-1)]+2.0*in[idx(Nx-1, Ny-1)]-h.Right[Ny-1])*dx2i +
				(-in[idx(Nx-1, Ny-2)]+2.0*in[idx(Nx-1, Ny-1)]-h.Top[Nx-1])*dy2i
		}
	}

	h.Wait()
}

// onGlobalBoundary reports whether local cell (i,j) lies on the global
// domain boundary. A tile edge is a global boundary only when the neighbour
// on that side is null.
func (s *Solver) onGlobalBoundary(i, j int) bool {
	var c = s.cart
	return (j == 0 && c.Bottom == pargrid.ProcNull) ||
		(j == s.Ny-1 && c.Top == pargrid.ProcNull) ||
		(i == 0 && c.Left == pargrid.ProcNull) ||
		(i == s.Nx-1 && c.Right == pargrid.ProcNull)
}

// Precondition applies the diagonal scaling out = in / (2(dx2i+dy2i)) to
// every cell that is not on the global boundary; boundary cells pass through
// unchanged. Tile-edge cells with a live neighbour are ordinary cells here;
// treating them as boundary would bias the residual.
func (s *Solver) Precondition(in, out []float64) {
	var (
		dx2i   = 1.0 / s.dx / s.dx
		dy2i   = 1.0 / s.dy / s.dy
		factor = 2.0 * (dx2i + dy2i)
	)
	for j := 0; j < s.Ny; j++ {
		for i := 0; i < s.Nx; i++ {
			ind := j*s.Nx + i
			if s.onGlobalBoundary(i, j) {
				out[ind] = in[ind]
			} else {
				out[ind] = in[ind] / factor
			}
		}
	}
}

// ImposeBC zeroes the strips of inout that lie on the global boundary: the
// full bottom or top row and the full left or right column for each side
// whose neighbour is null.
func (s *Solver) ImposeBC(inout []float64) {
	var (
		Nx, Ny = s.Nx, s.Ny
		c      = s.cart
	)
	if c.Bottom == pargrid.ProcNull {
		for i := 0; i < Nx; i++ {
			inout[i] = 0.0
		}
	}
	if c.Top == pargrid.ProcNull {
		for i := 0; i < Nx; i++ {
			inout[(Ny-1)*Nx+i] = 0.0
		}
	}
	if c.Left == pargrid.ProcNull {
		for j := 0; j < Ny; j++ {
			inout[j*Nx] = 0.0
		}
	}
	if c.Right == pargrid.ProcNull {
		for j := 0; j < Ny; j++ {
			inout[j*Nx+Nx-1] = 0.0
		}
	}
}
