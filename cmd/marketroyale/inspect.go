package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/pathfinding"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/world"
)

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Print a shortest path between two markets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := world.Load(worldPath)
			if err != nil {
				return err
			}

			path, err := pathfinding.ShortestPath(w.Graph, args[0], args[1])
			if err != nil {
				return err
			}
			color.New(color.FgCyan, color.Bold).Printf("%s\n", strings.Join(path, " -> "))
			color.Yellow("%d hops", path.Hops())
			return nil
		},
	}
}

func newCentreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "centre",
		Aliases: []string{"center"},
		Short:   "Show the central market and hop distances from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := world.Load(worldPath)
			if err != nil {
				return err
			}

			centre, err := pathfinding.Central(w.Graph)
			if err != nil {
				return err
			}
			farthest, err := pathfinding.Farthest(w.Graph, centre)
			if err != nil {
				return err
			}
			dist, err := pathfinding.Distances(w.Graph, centre)
			if err != nil {
				return err
			}

			color.New(color.FgCyan, color.Bold).Printf("Centre: %s, farthest: %s\n\n", centre, farthest)

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Market", "X", "Y", "Hops", "Products"}),
			)
			for _, node := range w.Graph.NodeNames() {
				pos, _ := w.Graph.NodePosition(node)
				hops := "unreachable"
				if d, ok := dist[node]; ok {
					hops = fmt.Sprintf("%d", d)
				}
				table.Append([]string{
					node,
					fmt.Sprintf("%.0f", pos.X),
					fmt.Sprintf("%.0f", pos.Y),
					hops,
					strings.Join(core.SortedKeys(w.Markets[node]), ", "),
				})
			}
			table.Render()
			return nil
		},
	}
}
