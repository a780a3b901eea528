/*
Package poisson solves the discrete Poisson problem -nabla^2 x = b on one
tile of a block-decomposed Cartesian grid, with homogeneous Dirichlet
conditions on the global boundary. The solver is a preconditioned conjugate
gradient with diagonal (Jacobi) preconditioning; the operator is the
five-point stencil of the negative Laplacian, applied with halo exchange and
communication/computation overlap.

All sizes are tile-local. Scalars that enter a global decision (alpha, beta,
the convergence test) are always formed as local partial values and summed
across the full grid before use; local partials are never compared directly.
*/
package poisson

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"

	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"
)

const (
	tol     = 1e-3 // the convergence test compares the residual norm to tol*tol
	maxIter = 5000
)

// ErrNotConverged is returned when the iteration cap is reached. It
// indicates an ill-posed input: wrong boundary stencils or invalid
// parameters rather than a slow solve.
var ErrNotConverged = errors.New("conjugate gradient failed to converge within 5000 iterations")

// Solver holds the tile geometry, the neighbour topology and the scratch
// arrays reused across solves.
type Solver struct {
	Nx, Ny int
	dx, dy float64
	cart   *pargrid.Cart

	r, p, z, t []float64
	halo       *pargrid.HaloExchange
}

// NewSolver constructs a solver for an Nx x Ny tile with spacing dx, dy.
// The Cartesian view supplies the row and column communicators the halo
// exchange and reductions run over.
func NewSolver(nx, ny int, dx, dy float64, cart *pargrid.Cart) (s *Solver) {
	var n = nx * ny
	s = &Solver{
		Nx:   nx,
		Ny:   ny,
		dx:   dx,
		dy:   dy,
		cart: cart,
		r:    make([]float64, n),
		p:    make([]float64, n),
		z:    make([]float64, n),
		t:    make([]float64, n),
		halo: pargrid.NewHaloExchange(cart, nx, ny),
	}
	return
}

func (s *Solver) GetNx() int     { return s.Nx }
func (s *Solver) GetNy() int     { return s.Ny }
func (s *Solver) GetDx() float64 { return s.dx }
func (s *Solver) GetDy() float64 { return s.dy }

func vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Data: x, Inc: 1}
}

// allreduceSum forms the grid-wide sum of a local partial value: summing
// down the column communicator gives each column's total, summing that
// across the row communicator gives the global total on every rank.
func (s *Solver) allreduceSum(v float64) float64 {
	return s.cart.RowComm.AllreduceSum(s.cart.ColComm.AllreduceSum(v))
}

// Solve runs preconditioned conjugate gradient on A x = b, where A is the
// negative-Laplacian five-point stencil. b and x are tile-local arrays of
// length Nx*Ny; on success x satisfies the global convergence criterion.
//
// The convergence test compares the residual 2-norm against tol*tol, a norm
// against a squared tolerance. That asymmetry is part of the solver's
// contract (it tightens the effective tolerance to 1e-6) and is kept as-is.
func (s *Solver) Solve(b, x []float64) error {
	var (
		n = s.Nx * s.Ny
		k int
	)

	// The 2-norm itself cannot be summed across ranks; its square can.
	eps := blas64.Nrm2(vec(b))
	globalEps := math.Sqrt(s.allreduceSum(eps * eps))
	if globalEps < tol*tol {
		// b is numerically zero, so is the solution.
		for i := range x[:n] {
			x[i] = 0
		}
		if s.cart.Root() {
			fmt.Printf("Norm is %v\n", globalEps)
		}
		return nil
	}

	s.ApplyOperator(x, s.t)
	blas64.Copy(vec(b), vec(s.r))
	s.ImposeBC(s.r)
	blas64.Axpy(-1.0, vec(s.t), vec(s.r)) // r = b - Ax
	s.Precondition(s.r, s.z)
	blas64.Copy(vec(s.z), vec(s.p))

	for {
		k++

		s.ApplyOperator(s.p, s.t)

		// alpha = <r,z> / <t,p>. The division cannot happen on local
		// partials: numerator and denominator are summed separately
		// across the grid, then divided.
		alphaDen := blas64.Dot(vec(s.t), vec(s.p))
		alphaNum := blas64.Dot(vec(s.r), vec(s.z))
		betaDen := alphaNum // <z_k, r_k>, reduced later alongside betaNum

		alpha := s.allreduceSum(alphaNum) / s.allreduceSum(alphaDen)

		blas64.Axpy(alpha, vec(s.p), vec(x[:n]))  // x_{k+1} = x_k + alpha p_k
		blas64.Axpy(-alpha, vec(s.t), vec(s.r))   // r_{k+1} = r_k - alpha A p_k

		eps = blas64.Nrm2(vec(s.r))
		globalEps = math.Sqrt(s.allreduceSum(eps * eps))
		if globalEps < tol*tol {
			break
		}

		s.Precondition(s.r, s.z)
		betaNum := blas64.Dot(vec(s.r), vec(s.z))
		beta := s.allreduceSum(betaNum) / s.allreduceSum(betaDen)

		blas64.Copy(vec(s.z), vec(s.t))
		blas64.Axpy(beta, vec(s.p), vec(s.t)) // p_{k+1} = z_{k+1} + beta p_k
		blas64.Copy(vec(s.t), vec(s.p))

		if k >= maxIter {
			break
		}
	}

	if k == maxIter {
		if s.cart.Root() {
			fmt.Println("FAILED TO CONVERGE")
		}
		return ErrNotConverged
	}

	if s.cart.Root() {
		fmt.Printf("Converged in %d iterations. eps = %v\n", k, globalEps)
	}
	return nil
}
