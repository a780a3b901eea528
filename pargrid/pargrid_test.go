package pargrid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorldRejectsNonSquare(t *testing.T) {
	for _, np := range []int{-1, 0, 2, 3, 5, 8, 12} {
		_, err := NewWorld(np)
		assert.Error(t, err, "np=%d", np)
	}
	for _, np := range []int{1, 4, 9, 16} {
		w, err := NewWorld(np)
		assert.NoError(t, err)
		assert.Equal(t, np, w.NP)
		assert.Equal(t, w.P*w.P, w.NP)
	}
}

func TestSplit1DCoversWithoutOverlap(t *testing.T) {
	for _, p := range []int{1, 2, 3, 4, 7} {
		for _, n := range []int{p, p + 1, 2*p + 1, 50, 101} {
			var (
				total    int
				nextStart int
			)
			for coord := 0; coord < p; coord++ {
				size, start := Split1D(coord, p, n)
				assert.Equal(t, nextStart, start, "p=%d n=%d coord=%d", p, n, coord)
				assert.True(t, size == n/p || size == n/p+1)
				total += size
				nextStart = start + size
			}
			assert.Equal(t, n, total, "p=%d n=%d", p, n)
		}
	}
}

func TestCartTopology(t *testing.T) {
	w, err := NewWorld(4)
	assert.NoError(t, err)

	c0 := w.Cart(0) // bottom-left
	assert.True(t, c0.Root())
	assert.Equal(t, ProcNull, c0.Bottom)
	assert.Equal(t, ProcNull, c0.Left)
	assert.Equal(t, 1, c0.Top)
	assert.Equal(t, 1, c0.Right)
	assert.True(t, c0.OnBoundary())

	c3 := w.Cart(3) // top-right
	assert.False(t, c3.Root())
	assert.Equal(t, ProcNull, c3.Top)
	assert.Equal(t, ProcNull, c3.Right)
	assert.Equal(t, 0, c3.Bottom)
	assert.Equal(t, 0, c3.Left)

	// On a 3x3 grid the centre rank has four live neighbours.
	w9, _ := NewWorld(9)
	c4 := w9.Cart(4)
	assert.False(t, c4.OnBoundary())
	assert.Equal(t, 2, c4.Top)
	assert.Equal(t, 0, c4.Bottom)
	assert.Equal(t, 0, c4.Left)
	assert.Equal(t, 2, c4.Right)
}

func TestAllreduceSum(t *testing.T) {
	var (
		w, _    = NewWorld(9)
		mu      sync.Mutex
		sums    []int
		rowSums []int
	)
	err := w.Run(func(cart *Cart) error {
		got := cart.World.AllreduceSumInt(cart.Rank + 1)
		rs := cart.RowComm.AllreduceSumInt(cart.RowRank)
		fs := cart.ColComm.AllreduceSum(float64(cart.ColRank) / 2)
		assert.InDelta(t, 1.5, fs, 1e-14)
		mu.Lock()
		sums = append(sums, got)
		rowSums = append(rowSums, rs)
		mu.Unlock()
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, sums, 9)
	for i := range sums {
		assert.Equal(t, 45, sums[i]) // 1+2+...+9 on every rank
		assert.Equal(t, 3, rowSums[i])
	}
}

func TestAllreduceRepeatedGenerations(t *testing.T) {
	w, _ := NewWorld(4)
	err := w.Run(func(cart *Cart) error {
		for round := 1; round <= 50; round++ {
			got := cart.World.AllreduceSumInt(round)
			assert.Equal(t, 4*round, got)
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestSendRecvMatchingAndOrder(t *testing.T) {
	w, _ := NewWorld(4)
	err := w.Run(func(cart *Cart) error {
		switch cart.Rank {
		case 0:
			r1 := cart.World.Isend([]float64{1, 2}, 1, 4)
			r2 := cart.World.Isend([]float64{3, 4}, 1, 4) // same tag, must not overtake
			r3 := cart.World.Isend([]float64{9}, 1, 5)
			r1.Wait()
			r2.Wait()
			r3.Wait()
		case 1:
			buf := make([]float64, 2)
			cart.World.Recv(buf[:1], 0, 5) // tag matching, not arrival order
			assert.Equal(t, 9.0, buf[0])
			cart.World.Recv(buf, 0, 4)
			assert.Equal(t, []float64{1, 2}, buf)
			cart.World.Recv(buf, 0, 4)
			assert.Equal(t, []float64{3, 4}, buf)
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestProcNullNoOps(t *testing.T) {
	w, _ := NewWorld(1)
	err := w.Run(func(cart *Cart) error {
		req := cart.RowComm.Isend([]float64{1}, ProcNull, 0)
		req.Wait()
		buf := []float64{42}
		cart.RowComm.Recv(buf, ProcNull, 0)
		assert.Equal(t, 42.0, buf[0]) // untouched
		return nil
	})
	assert.NoError(t, err)
}

func TestHaloExchange(t *testing.T) {
	// 2x2 rank grid, 3x3 tiles filled with the owner's rank. After an
	// exchange each halo buffer holds the neighbour's edge values; buffers
	// facing the global boundary stay zero.
	w, _ := NewWorld(4)
	err := w.Run(func(cart *Cart) error {
		var (
			n  = 3
			in = make([]float64, n*n)
			h  = NewHaloExchange(cart, n, n)
		)
		for i := range in {
			in[i] = float64(cart.Rank)
		}
		h.Exchange(in)
		check := func(nb int, buf []float64, fromRank int) {
			for i := range buf {
				if nb == ProcNull {
					assert.Equal(t, 0.0, buf[i])
				} else {
					assert.Equal(t, float64(fromRank), buf[i])
				}
			}
		}
		var (
			x = cart.RowRank
			y = cart.ColRank
		)
		check(cart.Top, h.Top, (y+1)*2+x)
		check(cart.Bottom, h.Bottom, (y-1)*2+x)
		check(cart.Left, h.Left, y*2+x-1)
		check(cart.Right, h.Right, y*2+x+1)
		return nil
	})
	assert.NoError(t, err)
}

func TestSplitGridTilePartition(t *testing.T) {
	// Tiles must cover the global grid exactly once, with sizes summing to
	// the global extent along every grid row and column.
	for _, np := range []int{1, 4, 9} {
		w, _ := NewWorld(np)
		var (
			mu    sync.Mutex
			cover = make(map[[2]int]int)
		)
		err := w.Run(func(cart *Cart) error {
			tile := SplitGrid(cart, 21, 11, 1.0, 2.0)
			sumX := cart.RowComm.AllreduceSumInt(tile.Nx)
			sumY := cart.ColComm.AllreduceSumInt(tile.Ny)
			assert.Equal(t, 21, sumX)
			assert.Equal(t, 11, sumY)
			mu.Lock()
			for j := 0; j < tile.Ny; j++ {
				for i := 0; i < tile.Nx; i++ {
					cover[[2]int{tile.XStart + i, tile.YStart + j}]++
				}
			}
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
		assert.Len(t, cover, 21*11)
		for cell, count := range cover {
			assert.Equal(t, 1, count, "cell %v", cell)
		}
	}
}
