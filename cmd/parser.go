package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrMissingValue    = errors.New("flag requires a value")
	ErrInvalidValue    = errors.New("invalid flag value")
	ErrRequiredFlag    = errors.New("required flag")
	ErrMissingArgument = errors.New("missing argument")
)

// Parser parses user-defined arguments into flags
type Parser struct {
	flagSet *CommandFlagSet

	longToName  map[string]string
	shortToName map[string]string
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	if flagSet == nil {
		flagSet = &CommandFlagSet{Flags: make(map[string]*CommandFlag)}
	}

	cp := &Parser{
		flagSet:     flagSet,
		longToName:  make(map[string]string),
		shortToName: make(map[string]string),
	}
	for flagName, flag := range flagSet.Flags {
		cp.longToName[flag.Name] = flagName
		if flag.Short != "" {
			cp.shortToName[flag.Short] = flagName
		}
	}
	return cp
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[flagName] = flag.Default
		}
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		switch {
		case arg == "--":
			args.Args = append(args.Args, raw[i+1:]...)
			i = len(raw)

		case strings.HasPrefix(arg, "--"):
			consumed, err := cp.parseLong(args, arg, raw[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			consumed, err := cp.parseShort(args, arg[1:], raw[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed

		default:
			args.Args = append(args.Args, arg)
		}
	}

	for flagName, flag := range cp.flagSet.Flags {
		if !flag.Required {
			continue
		}
		if _, ok := args.Flags[flagName]; !ok {
			return nil, fmt.Errorf("%w: --%s", ErrRequiredFlag, flag.Name)
		}
	}

	return args, nil
}

// parseLong handles --name, --name=value and --name value. It returns how
// many of the following arguments were consumed.
func (cp *Parser) parseLong(args *CommandArgs, arg string, rest []string) (int, error) {
	key, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	flagName, exists := cp.longToName[key]
	if !exists {
		return 0, fmt.Errorf("%w: --%s", ErrUnknownFlag, key)
	}

	flag := cp.flagSet.Flags[flagName]
	switch {
	case flag.Type == "bool" && !hasValue:
		args.Flags[flagName] = true
		return 0, nil
	case hasValue:
		return 0, cp.set(args, flagName, value)
	case len(rest) > 0 && !strings.HasPrefix(rest[0], "-"):
		return 1, cp.set(args, flagName, rest[0])
	}

	return 0, fmt.Errorf("%w: --%s", ErrMissingValue, key)
}

// parseShort handles grouped shorthands like -la and attached values like -n5.
func (cp *Parser) parseShort(args *CommandArgs, shortFlags string, rest []string) (int, error) {
	for j, shortChar := range shortFlags {
		shortStr := string(shortChar)
		flagName, exists := cp.shortToName[shortStr]
		if !exists {
			return 0, fmt.Errorf("%w: -%s", ErrUnknownFlag, shortStr)
		}

		flag := cp.flagSet.Flags[flagName]
		if flag.Type == "bool" {
			args.Flags[flagName] = true
			continue
		}

		if j+1 < len(shortFlags) {
			return 0, cp.set(args, flagName, shortFlags[j+1:])
		}
		if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
			return 1, cp.set(args, flagName, rest[0])
		}
		return 0, fmt.Errorf("%w: -%s", ErrMissingValue, shortStr)
	}

	return 0, nil
}

func (cp *Parser) set(args *CommandArgs, flagName, value string) error {
	flag := cp.flagSet.Flags[flagName]

	v, err := coerce(value, flag.Type)
	if err != nil {
		return fmt.Errorf("%w: --%s=%s", ErrInvalidValue, flag.Name, value)
	}
	args.Flags[flagName] = v
	return nil
}

func coerce(value string, typeStr string) (any, error) {
	switch typeStr {
	case "int":
		return strconv.ParseInt(value, 10, 64)
	case "bool":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}
