package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	authntypes "github.com/coactive-dev/sallyport/modules/authn/domain/types"
	authnservices "github.com/coactive-dev/sallyport/modules/authn/services"
	gatewayservices "github.com/coactive-dev/sallyport/modules/gateway/services"
	iamservices "github.com/coactive-dev/sallyport/modules/iam/services"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
	tenantservices "github.com/coactive-dev/sallyport/modules/tenant/services"
)

func main() {
	if len(os.Args) < 2 {
		fatalf("usage: gatetool <org-defaults|auth-defaults|levels|tiers|validate-chain> [args]")
	}

	switch os.Args[1] {
	case "org-defaults":
		orgDefaults()
	case "auth-defaults":
		authDefaults()
	case "levels":
		levels(os.Args[2:])
	case "tiers":
		tiers()
	case "validate-chain":
		validateChain(os.Args[2:])
	default:
		fatalf("unknown subcommand: %s", os.Args[1])
	}
}

// orgDefaults prints the effective organization defaults per tenant type.
func orgDefaults() {
	out := map[string]tenanttypes.Organization{}
	for _, t := range tenanttypes.TenantTypes {
		org, err := tenantservices.CreateOrganization("example", t, tenanttypes.Contact{}, nil)
		if err != nil {
			fatal(err)
		}
		org.ID = ""
		out[string(t)] = org
	}
	dump(out)
}

func authDefaults() {
	out := map[string]authntypes.MultiTenantAuthConfig{}
	for _, t := range tenanttypes.TenantTypes {
		cfg, err := authnservices.CreateAuthConfigForTenant("example", t, authntypes.SecurityOptions{}, nil)
		if err != nil {
			fatal(err)
		}
		out[string(t)] = cfg
	}
	dump(out)
}

func levels(args []string) {
	fs := flag.NewFlagSet("levels", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var path string
	fs.StringVar(&path, "path", "", "levels file (default: resolved like the server)")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if path == "" {
		p, err := iamservices.DefaultLevelsPath()
		if err != nil {
			fatal(err)
		}
		path = p
	}

	reg, err := iamservices.LoadLevelRegistry(path)
	if err != nil {
		fatal(err)
	}
	names := reg.Names()
	out := make(map[string]any, len(names))
	for _, name := range names {
		lvl, _ := reg.Lookup(name)
		out[name] = lvl
	}
	dump(out)
}

func tiers() {
	dump(gatewayservices.SupportedTierTypes())
}

func validateChain(args []string) {
	fs := flag.NewFlagSet("validate-chain", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var path, requesting, target, userID, orgID string
	fs.StringVar(&path, "path", "", "levels file (default: resolved like the server)")
	fs.StringVar(&requesting, "requesting", "", "requesting level name")
	fs.StringVar(&target, "target", "", "target level name")
	fs.StringVar(&userID, "user", "", "user id for guard context")
	fs.StringVar(&orgID, "org", "", "org id for guard context")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if requesting == "" || target == "" {
		fatalf("missing --requesting or --target")
	}
	if path == "" {
		p, err := iamservices.DefaultLevelsPath()
		if err != nil {
			fatal(err)
		}
		path = p
	}

	reg, err := iamservices.LoadLevelRegistry(path)
	if err != nil {
		fatal(err)
	}
	decision, err := reg.ValidateChain(requesting, target, iamservices.ChainContext{UserID: userID, OrgID: orgID})
	if err != nil {
		fatal(err)
	}
	dump(decision)
	if !decision.Valid {
		os.Exit(1)
	}
}

func dump(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
