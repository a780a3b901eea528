package cavity

import (
	"bufio"
	"fmt"
	"os"

	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"
)

// Gather tags on the world communicator; halo traffic owns 0-3.
const (
	tagGatherV = 4
	tagGatherS = 5
)

// WriteSolution gathers the vorticity and streamfunction onto the root rank
// and writes one record per grid cell: `x y v s u0 u1`, Ny rows per column
// with a blank line between columns. Velocities come from the streamfunction
// on interior cells; boundary velocities are zero except the lid row, which
// moves at U. Collective: every rank must call it.
func (c *LidDrivenCavity) WriteSolution(file string) error {
	var (
		cart = c.cart
		wc   = cart.World
	)
	if !cart.Root() {
		reqV := wc.Isend(c.v, 0, tagGatherV)
		reqS := wc.Isend(c.s, 0, tagGatherS)
		reqV.Wait()
		reqS.Wait()
		return nil
	}

	var (
		Nx, Ny = c.globalNx, c.globalNy
		v      = make([]float64, Nx*Ny)
		s      = make([]float64, Nx*Ny)
	)
	place := func(buf []float64, t pargrid.Tile, dst []float64) {
		for j := 0; j < t.Ny; j++ {
			copy(dst[(t.YStart+j)*Nx+t.XStart:(t.YStart+j)*Nx+t.XStart+t.Nx],
				buf[j*t.Nx:(j+1)*t.Nx])
		}
	}
	place(c.v, c.tile, v)
	place(c.s, c.tile, s)
	for rank := 1; rank < cart.P*cart.P; rank++ {
		var t pargrid.Tile
		t.Nx, t.XStart = pargrid.Split1D(rank%cart.P, cart.P, Nx)
		t.Ny, t.YStart = pargrid.Split1D(rank/cart.P, cart.P, Ny)
		buf := make([]float64, t.Nx*t.Ny)
		wc.Recv(buf, rank, tagGatherV)
		place(buf, t, v)
		wc.Recv(buf, rank, tagGatherS)
		place(buf, t, s)
	}

	var (
		u0 = make([]float64, Nx*Ny)
		u1 = make([]float64, Nx*Ny)
	)
	for j := 1; j < Ny-1; j++ {
		for i := 1; i < Nx-1; i++ {
			ind := j*Nx + i
			u0[ind] = (s[(j+1)*Nx+i] - s[ind]) / c.dy
			u1[ind] = -(s[j*Nx+i+1] - s[ind]) / c.dx
		}
	}
	for i := 0; i < Nx; i++ {
		u0[(Ny-1)*Nx+i] = c.U
	}

	fmt.Printf("Writing file %s\n", file)
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("creating solution file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i := 0; i < Nx; i++ {
		for j := 0; j < Ny; j++ {
			k := j*Nx + i
			fmt.Fprintf(w, "%v %v %v %v %v %v\n",
				float64(i)*c.dx, float64(j)*c.dy, v[k], s[k], u0[k], u1[k])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
