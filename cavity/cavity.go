/*
Package cavity integrates the 2-D incompressible Navier-Stokes equations in
vorticity-streamfunction form on a lid-driven square cavity, distributed
over a p x p grid of ranks. Each step assembles the boundary vorticity from
the streamfunction, recomputes the interior vorticity, advances it
explicitly in time (advection + diffusion) and hands the Poisson problem
-nabla^2 s = v to the conjugate gradient solver.
*/
package cavity

import (
	"fmt"
	"math"

	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"
	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/poisson"
)

// LidDrivenCavity owns the vorticity and streamfunction fields of one tile
// and the physics configuration, which is replicated on every rank. All
// configuration operations are collective: every rank calls them with the
// same arguments, and the tile split is derived locally from the global
// values.
type LidDrivenCavity struct {
	cart *pargrid.Cart

	globalNx, globalNy int
	globalLx, globalLy float64
	dx, dy             float64
	dt, T              float64
	Re, nu             float64
	U                  float64 // lid speed, fixed at construction

	tile pargrid.Tile
	Npts int // local grid point count

	v, s []float64
	tmp  []float64 // pre-update vorticity copy for the explicit step

	cg           *poisson.Solver
	haloS, haloV *pargrid.HaloExchange
}

// New constructs an unconfigured integrator on the given Cartesian view.
// Domain, grid, timestep, final time and Reynolds number are set through
// the Set* operations before Initialise.
func New(cart *pargrid.Cart) *LidDrivenCavity {
	return &LidDrivenCavity{
		cart: cart,
		U:    1.0,
	}
}

func (c *LidDrivenCavity) SetDomainSize(xlen, ylen float64) {
	c.globalLx = xlen
	c.globalLy = ylen
	c.updateDxDy()
}

func (c *LidDrivenCavity) SetGridSize(nx, ny int) {
	c.globalNx = nx
	c.globalNy = ny
	c.updateDxDy()
}

func (c *LidDrivenCavity) SetTimeStep(deltat float64) {
	c.dt = deltat
}

func (c *LidDrivenCavity) SetFinalTime(finalt float64) {
	c.T = finalt
}

func (c *LidDrivenCavity) SetReynoldsNumber(re float64) {
	c.Re = re
	c.nu = 1.0 / re
}

// updateDxDy recomputes the spacing and the local tile whenever the domain
// or grid changes.
func (c *LidDrivenCavity) updateDxDy() {
	if c.globalNx > 1 {
		c.dx = c.globalLx / float64(c.globalNx-1)
	}
	if c.globalNy > 1 {
		c.dy = c.globalLy / float64(c.globalNy-1)
	}
	c.tile = pargrid.SplitGrid(c.cart, c.globalNx, c.globalNy, c.globalLx, c.globalLy)
	c.Npts = c.tile.Nx * c.tile.Ny
}

// Getters report the resolved configuration; grid extents are the global
// values.
func (c *LidDrivenCavity) GetDt() float64 { return c.dt }
func (c *LidDrivenCavity) GetT() float64  { return c.T }
func (c *LidDrivenCavity) GetDx() float64 { return c.dx }
func (c *LidDrivenCavity) GetDy() float64 { return c.dy }
func (c *LidDrivenCavity) GetNx() int     { return c.globalNx }
func (c *LidDrivenCavity) GetNy() int     { return c.globalNy }
func (c *LidDrivenCavity) GetNpts() int   { return c.globalNx * c.globalNy }
func (c *LidDrivenCavity) GetLx() float64 { return c.globalLx }
func (c *LidDrivenCavity) GetLy() float64 { return c.globalLy }
func (c *LidDrivenCavity) GetRe() float64 { return c.Re }
func (c *LidDrivenCavity) GetU() float64  { return c.U }
func (c *LidDrivenCavity) GetNu() float64 { return c.nu }

// Tile exposes the local partition for inspection.
func (c *LidDrivenCavity) Tile() pargrid.Tile { return c.tile }

// PrintConfiguration reports the resolved parameters from the root rank and
// checks the explicit stability bound nu*dt/(dx*dy) <= 0.25. A violation is
// a fatal configuration error on every rank.
func (c *LidDrivenCavity) PrintConfiguration() error {
	if c.cart.Root() {
		fmt.Printf("Grid size: %d x %d\n", c.globalNx, c.globalNy)
		fmt.Printf("Spacing:   %v x %v\n", c.dx, c.dy)
		fmt.Printf("Length:    %v x %v\n", c.globalLx, c.globalLy)
		fmt.Printf("Grid pts:  %d\n", c.globalNx*c.globalNy)
		fmt.Printf("Timestep:  %v\n", c.dt)
		fmt.Printf("Steps:     %d\n", int(math.Ceil(c.T/c.dt)))
		fmt.Printf("Reynolds number: %v\n", c.Re)
		fmt.Printf("Linear solver: preconditioned conjugate gradient\n")
		fmt.Printf("\n")
	}
	if c.nu*c.dt/c.dx/c.dy > 0.25 {
		maxDt := 0.25 * c.dx * c.dy / c.nu
		if c.cart.Root() {
			fmt.Printf("ERROR: Time-step restriction not satisfied!\n")
			fmt.Printf("Maximum time-step is %v\n", maxDt)
		}
		return fmt.Errorf("time-step restriction not satisfied, maximum time-step is %v", maxDt)
	}
	return nil
}

// Initialise allocates the zeroed fields and constructs the Poisson solver
// and the halo exchanges for the local tile. It verifies that the tiles
// cover the global grid: local extents summed along any grid row or column
// must reproduce the global extents.
func (c *LidDrivenCavity) Initialise() {
	c.v = make([]float64, c.Npts)
	c.s = make([]float64, c.Npts)
	c.tmp = make([]float64, c.Npts)
	c.cg = poisson.NewSolver(c.tile.Nx, c.tile.Ny, c.dx, c.dy, c.cart)
	c.haloS = pargrid.NewHaloExchange(c.cart, c.tile.Nx, c.tile.Ny)
	c.haloV = pargrid.NewHaloExchange(c.cart, c.tile.Nx, c.tile.Ny)

	if nx := c.cart.RowComm.AllreduceSumInt(c.tile.Nx); nx != c.globalNx {
		panic(fmt.Sprintf("tile widths along row sum to %d, want %d", nx, c.globalNx))
	}
	if ny := c.cart.ColComm.AllreduceSumInt(c.tile.Ny); ny != c.globalNy {
		panic(fmt.Sprintf("tile heights along column sum to %d, want %d", ny, c.globalNy))
	}
}

// Integrate advances the solution from t=0 to the final time in
// ceil(T/dt) steps, reporting each step from the root rank.
func (c *LidDrivenCavity) Integrate() error {
	NSteps := int(math.Ceil(c.T / c.dt))
	for t := 0; t < NSteps; t++ {
		if c.cart.Root() {
			fmt.Printf("Step: %8d  Time: %8v\n", t, float64(t)*c.dt)
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// GetData returns copies of the local vorticity and streamfunction together
// with the velocities derived from the streamfunction on the tile interior.
// The lid row carries u0 = U on tiles touching the top boundary.
func (c *LidDrivenCavity) GetData() (vOut, sOut, u0Out, u1Out []float64) {
	var (
		Nx, Ny = c.tile.Nx, c.tile.Ny
	)
	vOut = append([]float64(nil), c.v...)
	sOut = append([]float64(nil), c.s...)
	u0Out = make([]float64, c.Npts)
	u1Out = make([]float64, c.Npts)
	for j := 1; j < Ny-1; j++ {
		for i := 1; i < Nx-1; i++ {
			ind := j*Nx + i
			u0Out[ind] = (sOut[(j+1)*Nx+i] - sOut[ind]) / c.dy
			u1Out[ind] = -(sOut[j*Nx+i+1] - sOut[ind]) / c.dx
		}
	}
	if c.cart.Top == pargrid.ProcNull {
		for i := 0; i < Nx; i++ {
			u0Out[(Ny-1)*Nx+i] = c.U
		}
	}
	return
}
