package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
)

const usage = `Usage:
  lenscodec encode [-in lens.json | -hmd DK2 -relief 12]
  lenscodec decode HEX`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = encode(os.Args[2:])
	case "decode":
		err = decode(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// encode prints the calibration record of a lens as hex. The lens comes
// from a JSON file, or is generated for a headset at an eye relief.
func encode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	in := fs.String("in", "", "Lens config JSON (- for stdin)")
	hmdName := fs.String("hmd", "DK2", "Headset to generate the lens for")
	reliefMM := fs.Float64("relief", 0, "Eye relief in mm (default: profile relief)")
	fs.Parse(args)

	var cfg lens.Config
	if *in != "" {
		var data []byte
		var err error
		if *in == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(*in)
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse %s: %w", *in, err)
		}
	} else {
		hmdType, err := device.ParseHmdType(*hmdName)
		if err != nil {
			return err
		}
		ri, err := hmd.NewResolver(nil).Resolve(device.DebugInfo(hmdType), nil, hmd.DefaultOptions())
		if err != nil {
			return err
		}
		if *reliefMM > 0 {
			if err := ri.SetEyeRelief(float32(*reliefMM)*0.001, lens.CatmullRom10); err != nil {
				return err
			}
		}
		cfg = ri.EyeLeft.Distortion
	}

	record, err := lens.Encode(cfg)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(record))
	return nil
}

// decode parses a hex record and prints the lens config as JSON.
func decode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("decode takes one hex argument")
	}
	record, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	cfg, err := lens.Decode(record)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
