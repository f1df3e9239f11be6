package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"ovr-stereo/internal/config"
	"ovr-stereo/internal/device"
	"ovr-stereo/internal/logging"
	"ovr-stereo/internal/profile"
)

const usage = `Usage: profiles [flags] COMMAND
Commands:
  list                      list users and the default user
  create ID [NAME]          add or rename a user
  remove ID                 delete a user and all its data
  default ID                make ID the default user of the headset
  set ID KEY VALUE...       store a value for the user on the headset
  show [ID]                 print the merged profile`

func main() {
	profileDB := flag.String("profile-db", "", "Profile directory (default: user config dir)")
	backend := flag.String("backend", "json", "Profile backend: json or sqlite")
	hmdName := flag.String("hmd", "DK2", "Headset the data applies to")
	serial := flag.String("serial", "", "Printed serial; scopes default and set to one unit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var cfg config.Config
	cfg.ProfileBackend = *backend
	cfg.Resolve(config.Flags{ProfileDB: *profileDB, HmdType: *hmdName})

	hmdType, err := device.ParseHmdType(cfg.HmdType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	info := device.DebugInfo(hmdType)
	info.PrintedSerial = *serial
	key := profile.NewDeviceKey(info)

	store, closer, err := profile.OpenStore(cfg.ProfileBackend, cfg.ProfileDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening profiles: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	m := profile.NewManager(store, cfg.ProfileDB)

	if err := run(m, key, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
	if err := m.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(m *profile.Manager, key profile.DeviceKey, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "list":
		def, _ := m.DefaultUser(key)
		for _, u := range m.Users() {
			mark := " "
			if u.ID == def {
				mark = "*"
			}
			fmt.Printf("%s %-24s %s\n", mark, u.ID, u.Name)
		}
		return nil

	case "create":
		if len(args) < 1 {
			return fmt.Errorf("create needs an id")
		}
		name := args[0]
		if len(args) > 1 {
			name = strings.Join(args[1:], " ")
		}
		id, err := m.CreateUser(args[0], name)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("remove needs an id")
		}
		if !m.RemoveUser(args[0]) {
			return fmt.Errorf("%s: %w", args[0], profile.ErrUnknownUser)
		}
		return nil

	case "default":
		if len(args) != 1 {
			return fmt.Errorf("default needs an id")
		}
		if !m.HasUser(args[0]) {
			return fmt.Errorf("%s: %w", args[0], profile.ErrUnknownUser)
		}
		if key.PrintedSerial != "" {
			return m.SetDefaultUser(key, args[0])
		}
		p := m.CreateProfile()
		p.SetString(profile.KeyDefaultUser, args[0])
		return m.SetTaggedProfile([]profile.Tag{{Name: profile.TagProduct, Value: key.ProductName}}, p)

	case "set":
		if len(args) < 3 {
			return fmt.Errorf("set needs an id, a key and a value")
		}
		if !m.HasUser(args[0]) {
			return fmt.Errorf("%s: %w", args[0], profile.ErrUnknownUser)
		}
		p := m.CreateProfile()
		p.Set(args[1], parseValue(args[2:]))
		tags := []profile.Tag{
			{Name: profile.TagUser, Value: args[0]},
			{Name: profile.TagProduct, Value: key.ProductName},
		}
		if key.PrintedSerial != "" {
			tags = append(tags, profile.Tag{Name: profile.TagSerial, Value: key.PrintedSerial})
		}
		return m.SetTaggedProfile(tags, p)

	case "show":
		var p *profile.Profile
		if len(args) == 0 {
			p = m.DefaultUserProfile(key)
		} else {
			var ok bool
			if p, ok = m.Profile(key, args[0]); !ok {
				return fmt.Errorf("%s: %w", args[0], profile.ErrUnknownUser)
			}
		}
		fmt.Println(p)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// parseValue reads numbers, true/false or else a string. Several numbers
// become an array.
func parseValue(args []string) profile.Value {
	if len(args) > 1 {
		nums := make([]float64, 0, len(args))
		for _, a := range args {
			n, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return profile.String(strings.Join(args, " "))
			}
			nums = append(nums, n)
		}
		return profile.Numbers(nums...)
	}
	s := args[0]
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return profile.Number(n)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return profile.Bool(b)
	}
	return profile.String(s)
}
