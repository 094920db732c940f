package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	apt "github.com/notargets/roomheat/model_problems/Apartment"
)

// Parameters obtained from the YAML input file, ghodss/yaml matches on the json tags
type Apartment struct {
	Title      string  `json:"Title"`
	Heater     float64 `json:"Heater"`
	Aircon     float64 `json:"Aircon"`
	Wall       float64 `json:"Wall"`
	Cols       int     `json:"Cols"`
	Iterations int     `json:"Iterations"`
	Open       bool    `json:"Open"`
	OnOff      bool    `json:"OnOff"`
	Relaxation float64 `json:"Relaxation"`
	Resolution int     `json:"Resolution"` // Colour levels in the heat map
	OutputDir  string  `json:"OutputDir"`
}

func NewApartment() *Apartment {
	return &Apartment{
		Title:      "Apartment",
		Heater:     40,
		Aircon:     10,
		Wall:       25,
		Cols:       20,
		Iterations: 10,
		Relaxation: 0.8,
		Resolution: 20,
		OutputDir:  ".",
	}
}

// Parse overlays the YAML document on the receiver, absent keys keep their value
func (ip *Apartment) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Parameters are the solver inputs of the run
func (ip *Apartment) Parameters() apt.Parameters {
	return apt.Parameters{
		Conditions: apt.Conditions{
			Heater: ip.Heater,
			Aircon: ip.Aircon,
			Wall:   ip.Wall,
			Open:   ip.Open,
			OnOff:  ip.OnOff,
		},
		Cols:       ip.Cols,
		Iterations: ip.Iterations,
		Relaxation: ip.Relaxation,
	}
}

// Validate defers the grid and iteration rules to the solver parameters and
// adds the checks on plotting and temperatures
func (ip *Apartment) Validate() error {
	if err := ip.Parameters().Validate(); err != nil {
		return err
	}
	switch {
	case ip.Resolution < 2:
		return fmt.Errorf("Resolution must be at least 2, have %d", ip.Resolution)
	case ip.Aircon > ip.Heater:
		return fmt.Errorf("Aircon %g is warmer than Heater %g", ip.Aircon, ip.Heater)
	}
	return nil
}

func (ip *Apartment) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.3f\t\t= Heater\n", ip.Heater)
	fmt.Printf("%8.3f\t\t= Aircon\n", ip.Aircon)
	fmt.Printf("%8.3f\t\t= Wall\n", ip.Wall)
	fmt.Printf("[%d]\t\t\t\t= Cols\n", ip.Cols)
	fmt.Printf("[%d]\t\t\t\t= Iterations\n", ip.Iterations)
	fmt.Printf("[%v]\t\t\t\t= Doors Open\n", ip.Open)
	fmt.Printf("[%v]\t\t\t\t= Oven On\n", ip.OnOff)
	fmt.Printf("%8.5f\t\t= Relaxation\n", ip.Relaxation)
	fmt.Printf("[%d]\t\t\t\t= Resolution\n", ip.Resolution)
	fmt.Printf("[%s]\t\t\t\t= Output Directory\n", ip.OutputDir)
}
