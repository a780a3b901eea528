package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/InputParameters"
)

func TestParameterFile(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Driven cavity, Re 1000
Lx: 1.0
Ly: 1.0
Nx: 101
Ny: 101
Re: 1000
Dt: 0.005
FinalTime: 1.0
Np: 4
OutputFile: cavity.txt
`)
	var input InputParameters.InputParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Title, "Driven cavity, Re 1000")
	assert.Equal(t, input.Nx, 101)
	assert.Equal(t, input.Re, 1000.)
	assert.Equal(t, input.Dt, 0.005)
	assert.Equal(t, input.FinalTime, 1.)
	assert.Equal(t, input.Np, 4)
	assert.Equal(t, input.OutputFile, "cavity.txt")
	input.Print()
}
