/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/InputParameters"
	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/cavity"
	"github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/pargrid"
)

// CavityRun carries the resolved run parameters for the solve command.
type CavityRun struct {
	Lx, Ly   float64
	Nx, Ny   int
	Re       float64
	Dt       float64
	T        float64
	Np       int
	Out      string
	CPUProf  bool
	ParamFile string
}

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Integrate the lid-driven cavity flow to the final time",
	Long: `
Integrates the vorticity-streamfunction equations on the cavity with the
given grid, Reynolds number and timestep, solving a Poisson problem for the
streamfunction each step with preconditioned conjugate gradient.

cavity solve --Nx 101 --Ny 101 --Re 1000 --dt 0.005 --T 1 --np 4`,
	Run: func(cmd *cobra.Command, args []string) {
		cr := &CavityRun{}
		cr.Lx, _ = cmd.Flags().GetFloat64("Lx")
		cr.Ly, _ = cmd.Flags().GetFloat64("Ly")
		cr.Nx, _ = cmd.Flags().GetInt("Nx")
		cr.Ny, _ = cmd.Flags().GetInt("Ny")
		cr.Re, _ = cmd.Flags().GetFloat64("Re")
		cr.Dt, _ = cmd.Flags().GetFloat64("dt")
		cr.T, _ = cmd.Flags().GetFloat64("T")
		cr.Np, _ = cmd.Flags().GetInt("np")
		cr.Out, _ = cmd.Flags().GetString("out")
		cr.CPUProf, _ = cmd.Flags().GetBool("cpuprofile")
		cr.ParamFile, _ = cmd.Flags().GetString("inputConditionsFile")
		if len(cr.ParamFile) != 0 {
			applyParamFile(cr)
		}
		if cr.CPUProf {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		RunSolve(cr)
	},
}

// applyParamFile overlays a YAML parameter file onto the flag values.
func applyParamFile(cr *CavityRun) {
	data, err := os.ReadFile(cr.ParamFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip := &InputParameters.InputParameters{
		Lx: cr.Lx, Ly: cr.Ly,
		Nx: cr.Nx, Ny: cr.Ny,
		Re: cr.Re, Dt: cr.Dt, FinalTime: cr.T,
		Np: cr.Np, OutputFile: cr.Out,
	}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip.Print()
	cr.Lx, cr.Ly = ip.Lx, ip.Ly
	cr.Nx, cr.Ny = ip.Nx, ip.Ny
	cr.Re, cr.Dt, cr.T = ip.Re, ip.Dt, ip.FinalTime
	cr.Np, cr.Out = ip.Np, ip.OutputFile
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().Float64("Lx", 1.0, "domain extent in x")
	solveCmd.Flags().Float64("Ly", 1.0, "domain extent in y")
	solveCmd.Flags().Int("Nx", 9, "grid points in x")
	solveCmd.Flags().Int("Ny", 9, "grid points in y")
	solveCmd.Flags().Float64("Re", 10, "Reynolds number")
	solveCmd.Flags().Float64("dt", 0.01, "timestep")
	solveCmd.Flags().Float64("T", 1.0, "final time")
	solveCmd.Flags().IntP("np", "n", 1, "rank count, must be a perfect square")
	solveCmd.Flags().StringP("out", "o", "", "solution file to write, empty for no file")
	solveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML parameter file overriding the flags")
	solveCmd.Flags().Bool("cpuprofile", false, "write a CPU profile for the run")
}

// RunSolve builds the rank world and drives the integrator on every rank.
func RunSolve(cr *CavityRun) {
	w, err := pargrid.NewWorld(cr.Np)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	err = w.Run(func(cart *pargrid.Cart) error {
		c := cavity.New(cart)
		c.SetDomainSize(cr.Lx, cr.Ly)
		c.SetGridSize(cr.Nx, cr.Ny)
		c.SetTimeStep(cr.Dt)
		c.SetFinalTime(cr.T)
		c.SetReynoldsNumber(cr.Re)
		if err := c.PrintConfiguration(); err != nil {
			return err
		}
		c.Initialise()
		if err := c.Integrate(); err != nil {
			return err
		}
		if len(cr.Out) != 0 {
			return c.WriteSolution(cr.Out)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
