package cavity

import "github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"

// Advance performs one explicit timestep. Executed collectively:
//
//	A. boundary vorticity on tiles touching a global edge
//	B. interior vorticity v = -nabla^2 s on every non-boundary cell
//	C. explicit advance of v (advection + diffusion), reading the
//	   pre-update vorticity
//	D. Poisson solve -nabla^2 s = v
//
// The streamfunction halo is refreshed before A (degenerate one-cell-wide
// boundary tiles read across the tile edge) and serves B and C; the
// vorticity halo is refreshed between B and C.
func (c *LidDrivenCavity) Advance() error {
	var (
		Nx, Ny = c.tile.Nx, c.tile.Ny
		cart   = c.cart
		dxi    = 1.0 / c.dx
		dyi    = 1.0 / c.dy
		dx2i   = 1.0 / c.dx / c.dx
		dy2i   = 1.0 / c.dy / c.dy
		v, s   = c.v, c.s
		tmp    = c.tmp
		hS, hV = c.haloS, c.haloV
	)
	idx := func(i, j int) int { return j*Nx + i }

	c.haloS.Exchange(s)

	// Neighbour-aware lookups: indices one past the tile edge resolve into
	// the halo buffers. Never called across a global boundary.
	sAt := func(i, j int) float64 {
		switch {
		case i < 0:
			return hS.Left[j]
		case i >= Nx:
			return hS.Right[j]
		case j < 0:
			return hS.Bottom[i]
		case j >= Ny:
			return hS.Top[i]
		}
		return s[j*Nx+i]
	}

	// Cell ranges that exclude the global boundary. Tile edges facing a
	// live neighbour stay in range.
	i0, i1 := 0, Nx
	if cart.Left == pargrid.ProcNull {
		i0 = 1
	}
	if cart.Right == pargrid.ProcNull {
		i1 = Nx - 1
	}
	j0, j1 := 0, Ny
	if cart.Bottom == pargrid.ProcNull {
		j0 = 1
	}
	if cart.Top == pargrid.ProcNull {
		j1 = Ny - 1
	}

	// Step A: boundary vorticity from one-sided second-order expressions,
	// applied along each global edge the tile touches. Global corner cells
	// are excluded. The lid term applies on the top edge only.
	if cart.Bottom == pargrid.ProcNull {
		for i := i0; i < i1; i++ {
			v[idx(i, 0)] = 2.0 * dy2i * (s[idx(i, 0)] - sAt(i, 1))
		}
	}
	if cart.Top == pargrid.ProcNull {
		for i := i0; i < i1; i++ {
			v[idx(i, Ny-1)] = 2.0*dy2i*(s[idx(i, Ny-1)]-sAt(i, Ny-2)) - 2.0*dyi*c.U
		}
	}
	if cart.Left == pargrid.ProcNull {
		for j := j0; j < j1; j++ {
			v[idx(0, j)] = 2.0 * dx2i * (s[idx(0, j)] - sAt(1, j))
		}
	}
	if cart.Right == pargrid.ProcNull {
		for j := j0; j < j1; j++ {
			v[idx(Nx-1, j)] = 2.0 * dx2i * (s[idx(Nx-1, j)] - sAt(Nx-2, j))
		}
	}

	// Step B: interior vorticity. The strictly interior cells index the
	// tile directly; the remaining in-range cells go through the halo
	// lookups, which also covers one-cell-wide tiles.
	for j := 1; j < Ny-1; j++ {
		for i := 1; i < Nx-1; i++ {
			v[idx(i, j)] = dx2i*(2.0*s[idx(i, j)]-s[idx(i+1, j)]-s[idx(i-1, j)]) +
				dy2i*(2.0*s[idx(i, j)]-s[idx(i, j+1)]-s[idx(i, j-1)])
		}
	}
	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			if i > 0 && i < Nx-1 && j > 0 && j < Ny-1 {
				continue
			}
			v[idx(i, j)] = dx2i*(2.0*s[idx(i, j)]-sAt(i+1, j)-sAt(i-1, j)) +
				dy2i*(2.0*s[idx(i, j)]-sAt(i, j+1)-sAt(i, j-1))
		}
	}

	// Step C reads the vorticity of the step being left, so neighbours'
	// post-B values are exchanged and the local field is snapshotted before
	// any cell is advanced.
	c.haloV.Exchange(v)
	copy(tmp, v)

	vAt := func(i, j int) float64 {
		switch {
		case i < 0:
			return hV.Left[j]
		case i >= Nx:
			return hV.Right[j]
		case j < 0:
			return hV.Bottom[i]
		case j >= Ny:
			return hV.Top[i]
		}
		return tmp[j*Nx+i]
	}

	for j := 1; j < Ny-1; j++ {
		for i := 1; i < Nx-1; i++ {
			ind := idx(i, j)
			v[ind] = tmp[ind] + c.dt*(
				(s[idx(i+1, j)]-s[idx(i-1, j)])*0.5*dxi*
					(tmp[idx(i, j+1)]-tmp[idx(i, j-1)])*0.5*dyi-
					(s[idx(i, j+1)]-s[idx(i, j-1)])*0.5*dyi*
						(tmp[idx(i+1, j)]-tmp[idx(i-1, j)])*0.5*dxi+
					c.nu*(tmp[idx(i+1, j)]-2.0*tmp[ind]+tmp[idx(i-1, j)])*dx2i+
					c.nu*(tmp[idx(i, j+1)]-2.0*tmp[ind]+tmp[idx(i, j-1)])*dy2i)
		}
	}
	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			if i > 0 && i < Nx-1 && j > 0 && j < Ny-1 {
				continue
			}
			ind := idx(i, j)
			v[ind] = tmp[ind] + c.dt*(
				(sAt(i+1, j)-sAt(i-1, j))*0.5*dxi*
					(vAt(i, j+1)-vAt(i, j-1))*0.5*dyi-
					(sAt(i, j+1)-sAt(i, j-1))*0.5*dyi*
						(vAt(i+1, j)-vAt(i-1, j))*0.5*dxi+
					c.nu*(vAt(i+1, j)-2.0*tmp[ind]+vAt(i-1, j))*dx2i+
					c.nu*(vAt(i, j+1)-2.0*tmp[ind]+vAt(i, j-1))*dy2i)
		}
	}

	// Step D: the streamfunction solve.
	return c.cg.Solve(c.v, c.s)
}
