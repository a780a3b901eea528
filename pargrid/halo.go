package pargrid

import "gonum.org/v1/gonum/blas/blas64"

// Halo direction tags. The column communicator carries the vertical traffic,
// the row communicator the horizontal traffic.
const (
	tagUp = iota
	tagDown
	tagLeft
	tagRight
)

// HaloExchange swaps the four edge strips of an Nx x Ny tile with the
// neighbouring ranks. Receive buffers are exposed so stencil sweeps can read
// neighbour values directly; send-side column strips are gathered through
// strided copies into separate temp buffers so send and receive storage
// never alias.
//
// The split Start/Receive/Wait surface exists for the operator kernel, which
// computes its interior between posting the sends and draining the receives.
type HaloExchange struct {
	cart   *Cart
	Nx, Ny int

	Top    []float64 // row sent down by the top neighbour
	Bottom []float64 // row sent up by the bottom neighbour
	Left   []float64 // column sent right by the left neighbour
	Right  []float64 // column sent left by the right neighbour

	tempLeft  []float64
	tempRight []float64
	reqs      [4]Request
}

func NewHaloExchange(cart *Cart, nx, ny int) *HaloExchange {
	return &HaloExchange{
		cart:      cart,
		Nx:        nx,
		Ny:        ny,
		Top:       make([]float64, nx),
		Bottom:    make([]float64, nx),
		Left:      make([]float64, ny),
		Right:     make([]float64, ny),
		tempLeft:  make([]float64, ny),
		tempRight: make([]float64, ny),
	}
}

// Start posts the four edge strips of in to the neighbours. The row strips
// go out first, contiguous as stored; the column strips are gathered with a
// stride-Nx copy before sending. ProcNull neighbours turn the sends into
// no-ops.
func (h *HaloExchange) Start(in []float64) {
	var (
		c      = h.cart
		Nx, Ny = h.Nx, h.Ny
	)
	h.reqs[0] = c.ColComm.Isend(in[Nx*(Ny-1):Nx*Ny], c.Top, tagUp)
	h.reqs[1] = c.ColComm.Isend(in[:Nx], c.Bottom, tagDown)

	blas64.Copy(
		blas64.Vector{N: Ny, Inc: Nx, Data: in},
		blas64.Vector{N: Ny, Inc: 1, Data: h.tempLeft})
	blas64.Copy(
		blas64.Vector{N: Ny, Inc: Nx, Data: in[Nx-1:]},
		blas64.Vector{N: Ny, Inc: 1, Data: h.tempRight})

	h.reqs[2] = c.RowComm.Isend(h.tempLeft, c.Left, tagLeft)
	h.reqs[3] = c.RowComm.Isend(h.tempRight, c.Right, tagRight)
}

// Receive drains the four neighbour strips into the halo buffers. Buffers
// facing a ProcNull neighbour are left untouched; the stencil sweeps never
// read them because those cells sit on the global boundary.
func (h *HaloExchange) Receive() {
	var c = h.cart
	c.ColComm.Recv(h.Bottom, c.Bottom, tagUp)
	c.ColComm.Recv(h.Top, c.Top, tagDown)
	c.RowComm.Recv(h.Right, c.Right, tagLeft)
	c.RowComm.Recv(h.Left, c.Left, tagRight)
}

// Wait completes the outstanding sends. Must be called before the next Start
// on the same exchange.
func (h *HaloExchange) Wait() {
	for _, r := range h.reqs {
		r.Wait()
	}
}

// Exchange runs a full Start/Receive/Wait cycle for callers with no interior
// work to overlap.
func (h *HaloExchange) Exchange(in []float64) {
	h.Start(in)
	h.Receive()
	h.Wait()
}
