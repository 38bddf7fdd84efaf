package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ballotchain/ballot-node/client"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// ConfigureManagerConsole builds the election command set. The signer may be nil for a read-only console.
func ConfigureManagerConsole(c *client.Client, signer *client.Signer, out io.Writer) *ManagerConsole {
	app := cli.NewApp()
	app.Writer = out
	app.ErrWriter = out
	app.CommandNotFound = func(ctx *cli.Context, cmd string) {
		_, _ = fmt.Fprintf(ctx.App.Writer, "No help topic for '%v'\n", cmd)
	}
	app.UseShortOptionHandling = true
	jsonFlag := &cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Required: false, Usage: "echo in json format"}
	heightFlag := &cli.Int64Flag{Name: "height", Required: false, Usage: "read the state committed at height"}

	app.Commands = []*cli.Command{
		{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "display the election status",
			Flags:   []cli.Flag{jsonFlag, heightFlag},
			Action:  statusCMD(c),
		},
		{
			Name:    "candidates",
			Aliases: []string{"cs"},
			Usage:   "list every candidate with its votes",
			Flags:   []cli.Flag{jsonFlag, heightFlag},
			Action:  candidatesCMD(c),
		},
		{
			Name:    "candidate",
			Aliases: []string{"c"},
			Usage:   "display one candidate",
			Flags: []cli.Flag{
				&cli.UintFlag{Name: "id", Aliases: []string{"i"}, Required: true},
				jsonFlag, heightFlag,
			},
			Action: candidateCMD(c),
		},
		{
			Name:    "voter",
			Aliases: []string{"v"},
			Usage:   "display the record of a voter",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Required: true, Usage: "0x..."},
				jsonFlag, heightFlag,
			},
			Action: voterCMD(c),
		},
		{
			Name:    "add_candidate",
			Aliases: []string{"ac"},
			Usage:   "register a candidate (owner only)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
			},
			Action: addCandidateCMD(c, signer),
		},
		{
			Name:    "authorize",
			Aliases: []string{"au"},
			Usage:   "whitelist a voter (owner only)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Required: true, Usage: "0x..."},
			},
			Action: authorizeCMD(c, signer),
		},
		{
			Name:   "start",
			Usage:  "open the election (owner only)",
			Action: startCMD(c, signer),
		},
		{
			Name:   "end",
			Usage:  "close the election (owner only)",
			Action: endCMD(c, signer),
		},
		{
			Name:  "vote",
			Usage: "cast the ballot of the console key",
			Flags: []cli.Flag{
				&cli.UintFlag{Name: "id", Aliases: []string{"i"}, Required: true, Usage: "candidate id"},
			},
			Action: voteCMD(c, signer),
		},
		{
			Name:    "exit",
			Aliases: []string{"e"},
			Usage:   "exit",
			Action:  exitCMD,
		},
	}

	for _, command := range app.Commands {
		command.Flags = append(command.Flags, cli.HelpFlag)
	}

	app.Setup()
	return NewManagerConsole(app)
}

func exitCMD(_ *cli.Context) error {
	os.Exit(0)
	return nil
}

func clientAt(c *client.Client, ctx *cli.Context) *client.Client {
	if height := ctx.Int64("height"); height > 0 {
		return c.AtHeight(height)
	}
	return c
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func requireSigner(signer *client.Signer) error {
	if signer == nil {
		return errors.New("no key loaded, start the console with --key")
	}
	return nil
}

func statusCMD(c *client.Client) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		status, err := clientAt(c, ctx).Status(ctx.Context)
		if err != nil {
			return err
		}
		if ctx.Bool("json") {
			return printJSON(ctx.App.Writer, status)
		}
		_, err = fmt.Fprintf(ctx.App.Writer, "Status: %s\nActive: %t\nEnforce window: %t\nCandidates: %d\n",
			status.Status, status.Active, status.EnforceElectionWindow, status.CandidatesCount)
		return err
	}
}

func candidatesCMD(c *client.Client) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		list, err := clientAt(c, ctx).GetAllCandidates(ctx.Context)
		if err != nil {
			return err
		}
		if ctx.Bool("json") {
			return printJSON(ctx.App.Writer, list)
		}
		for _, candidate := range list {
			if _, err := fmt.Fprintf(ctx.App.Writer, "%d\t%s\t%d\n", candidate.ID, candidate.Name, candidate.VoteCount); err != nil {
				return err
			}
		}
		return nil
	}
}

func candidateCMD(c *client.Client) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		candidate, err := clientAt(c, ctx).GetCandidate(ctx.Context, uint32(ctx.Uint("id")))
		if err != nil {
			return err
		}
		if ctx.Bool("json") {
			return printJSON(ctx.App.Writer, candidate)
		}
		_, err = fmt.Fprintf(ctx.App.Writer, "%d\t%s\t%d\n", candidate.ID, candidate.Name, candidate.VoteCount)
		return err
	}
}

func voterCMD(c *client.Client) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		address, err := types.ParseAddress(ctx.String("address"))
		if err != nil {
			return err
		}
		record, err := clientAt(c, ctx).GetVoterRecord(ctx.Context, address)
		if err != nil {
			return err
		}
		if ctx.Bool("json") {
			return printJSON(ctx.App.Writer, record)
		}
		_, err = fmt.Fprintf(ctx.App.Writer, "Authorized: %t\nVoted: %t\nCandidate: %d\n", record.Authorized, record.Voted, record.VotedCandidateID)
		return err
	}
}

func addCandidateCMD(c *client.Client, signer *client.Signer) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireSigner(signer); err != nil {
			return err
		}
		id, err := c.AddCandidate(ctx.Context, signer, ctx.String("name"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(ctx.App.Writer, "Candidate %d added\n", id)
		return err
	}
}

func authorizeCMD(c *client.Client, signer *client.Signer) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireSigner(signer); err != nil {
			return err
		}
		address, err := types.ParseAddress(ctx.String("address"))
		if err != nil {
			return err
		}
		if err := c.AuthorizeVoter(ctx.Context, signer, address); err != nil {
			return err
		}
		_, err = fmt.Fprintf(ctx.App.Writer, "Voter %s authorized\n", address)
		return err
	}
}

func startCMD(c *client.Client, signer *client.Signer) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireSigner(signer); err != nil {
			return err
		}
		if err := c.StartElection(ctx.Context, signer); err != nil {
			return err
		}
		_, err := fmt.Fprintln(ctx.App.Writer, "Election started")
		return err
	}
}

func endCMD(c *client.Client, signer *client.Signer) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireSigner(signer); err != nil {
			return err
		}
		if err := c.EndElection(ctx.Context, signer); err != nil {
			return err
		}
		_, err := fmt.Fprintln(ctx.App.Writer, "Election ended")
		return err
	}
}

func voteCMD(c *client.Client, signer *client.Signer) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireSigner(signer); err != nil {
			return err
		}
		id := uint32(ctx.Uint("id"))
		if err := c.Vote(ctx.Context, signer, id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(ctx.App.Writer, "Voted for candidate %d\n", id)
		return err
	}
}
