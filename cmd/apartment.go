/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/roomheat/InputParameters"
	"github.com/notargets/roomheat/model_problems/Apartment"
	"github.com/notargets/roomheat/utils"
)

// ApartmentCmd represents the apartment command
var ApartmentCmd = &cobra.Command{
	Use:   "apartment",
	Short: "Heat distribution in a four room apartment",
	Long: `
Living room, kitchen, entry and bathroom are solved concurrently and
exchange interface temperatures and fluxes for a fixed number of rounds.
Values are taken from, in increasing priority, the built in defaults, the
input conditions file, the config file, ROOMHEAT_* environment variables
and the command line.

apartment -I input.yaml --open --onOff -o out`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		prof, _ := cmd.Flags().GetBool("profile")
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")

		var ip *InputParameters.Apartment
		if ip, err = loadApartment(icFile, viper.GetViper()); err != nil {
			return
		}
		if verbose {
			ip.Print()
		}
		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(ip.OutputDir)).Stop()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err = RunApartment(ctx, ip, verbose, cmd.OutOrStdout()); err != nil {
			return failure(cmd.ErrOrStderr(), "Apartment run failed", err)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ApartmentCmd)
	def := InputParameters.NewApartment()
	ApartmentCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Heater, Aircon, Wall temperatures\n\t- Cols, Iterations, Relaxation")
	ApartmentCmd.Flags().Float64("heater", def.Heater, "temperature of heaters, stove and the oven when on")
	ApartmentCmd.Flags().Float64("aircon", def.Aircon, "temperature of air conditioners, open doors and the oven when off")
	ApartmentCmd.Flags().Float64("wall", def.Wall, "temperature of plain walls")
	ApartmentCmd.Flags().IntP("cols", "c", def.Cols, "grid columns per room width, even and at least 12")
	ApartmentCmd.Flags().IntP("iterations", "n", def.Iterations, "number of exchange rounds")
	ApartmentCmd.Flags().Bool("open", def.Open, "doors open to the outside")
	ApartmentCmd.Flags().Bool("onOff", def.OnOff, "kitchen oven on")
	ApartmentCmd.Flags().Float64P("relaxation", "w", def.Relaxation, "weight of the fresh field in the kitchen and entry")
	ApartmentCmd.Flags().IntP("resolution", "r", def.Resolution, "number of colour levels in the heat map")
	ApartmentCmd.Flags().StringP("outputDir", "o", def.OutputDir, "directory for the heat map and convergence history")
	ApartmentCmd.Flags().BoolP("verbose", "v", false, "print parameters and per room progress")
	ApartmentCmd.Flags().Bool("profile", false, "write a CPU profile into the output directory")
	for _, name := range []string{"heater", "aircon", "wall", "cols", "iterations", "open", "onOff",
		"relaxation", "resolution", "outputDir"} {
		if err := viper.BindPFlag(name, ApartmentCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// applyOverrides replaces the values v has explicitly been given, flag
// defaults do not count
func applyOverrides(ip *InputParameters.Apartment, v *viper.Viper) {
	if v.IsSet("heater") {
		ip.Heater = v.GetFloat64("heater")
	}
	if v.IsSet("aircon") {
		ip.Aircon = v.GetFloat64("aircon")
	}
	if v.IsSet("wall") {
		ip.Wall = v.GetFloat64("wall")
	}
	if v.IsSet("cols") {
		ip.Cols = v.GetInt("cols")
	}
	if v.IsSet("iterations") {
		ip.Iterations = v.GetInt("iterations")
	}
	if v.IsSet("open") {
		ip.Open = v.GetBool("open")
	}
	if v.IsSet("onOff") {
		ip.OnOff = v.GetBool("onOff")
	}
	if v.IsSet("relaxation") {
		ip.Relaxation = v.GetFloat64("relaxation")
	}
	if v.IsSet("resolution") {
		ip.Resolution = v.GetInt("resolution")
	}
	if v.IsSet("outputDir") {
		ip.OutputDir = v.GetString("outputDir")
	}
}

// loadApartment layers the defaults, the input conditions file and the
// values set through v, then validates the result
func loadApartment(icFile string, v *viper.Viper) (ip *InputParameters.Apartment, err error) {
	ip = InputParameters.NewApartment()
	if len(icFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(icFile); err == nil {
			err = ip.Parse(data)
		}
		if err != nil {
			return nil, failure(os.Stderr, "Unable to read input conditions file "+icFile, err)
		}
	}
	applyOverrides(ip, v)
	if err = ip.Validate(); err != nil {
		return nil, failure(os.Stderr, "Invalid input parameters", err)
	}
	return
}

// RunApartment solves, renders the floor plan and writes the convergence
// history, returning the paths of the files written
func RunApartment(ctx context.Context, ip *InputParameters.Apartment, verbose bool, w io.Writer) (files []string, err error) {
	var (
		c                           *Apartment.Coordinator
		res                         *Apartment.Result
		plan                        utils.Matrix
		heatMap, csvPath, chartPath string
	)
	heading(w, "%s: %d columns, %d rounds", ip.Title, ip.Cols, ip.Iterations)
	if c, err = Apartment.NewCoordinator(ip.Parameters(), verbose); err != nil {
		return
	}
	if res, err = c.Run(ctx); err != nil {
		return
	}
	if plan, err = res.Composite(ip.Wall); err != nil {
		return
	}
	if heatMap, err = Apartment.Render(plan, ip.Wall, ip.Open, ip.OnOff, ip.OutputDir, ip.Resolution); err != nil {
		return
	}
	success(w, "heat map written to %s", heatMap)
	if csvPath, chartPath, err = res.WriteHistory(ip.OutputDir); err != nil {
		return
	}
	success(w, "convergence history written to %s and %s", csvPath, chartPath)
	if verbose {
		fmt.Fprintf(w, "Floor plan Tmin = %8.3f, Tmax = %8.3f\n", plan.Min(), plan.Max())
	}
	files = []string{heatMap, csvPath, chartPath}
	return
}
