package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// InputParameters is the YAML run-parameter file for the cavity solver. Any
// field present in the file overrides the corresponding command line flag.
type InputParameters struct {
	Title      string  `yaml:"Title"`
	Lx         float64 `yaml:"Lx"`
	Ly         float64 `yaml:"Ly"`
	Nx         int     `yaml:"Nx"`
	Ny         int     `yaml:"Ny"`
	Re         float64 `yaml:"Re"`
	Dt         float64 `yaml:"Dt"`
	FinalTime  float64 `yaml:"FinalTime"`
	Np         int     `yaml:"Np"`
	OutputFile string  `yaml:"OutputFile"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f x %8.5f\t= Domain\n", ip.Lx, ip.Ly)
	fmt.Printf("%d x %d\t\t= Grid\n", ip.Nx, ip.Ny)
	fmt.Printf("%8.5f\t\t= Reynolds number\n", ip.Re)
	fmt.Printf("%8.5f\t\t= Timestep\n", ip.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d]\t\t\t= Ranks\n", ip.Np)
	fmt.Printf("[%s]\t\t= Output file\n", ip.OutputFile)
}
