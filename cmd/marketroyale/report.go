package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

func printGameReport(rep gameReport) {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)
	res := rep.result

	titleColor.Printf("\nGame %s (seed %d)\n\n", res.GameID, rep.seed)

	rules := rep.history.RuleCounts()
	ruleTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Rule", "Turns"}),
	)
	for _, rule := range core.SortedKeys(rules) {
		ruleTable.Append([]string{rule, fmt.Sprintf("%d", rules[rule])})
	}
	ruleTable.Render()
	fmt.Println()

	products := make(map[string]bool)
	for product := range res.Inventory {
		products[product] = true
	}
	for product := range rep.goal {
		products[product] = true
	}
	invTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Product", "Held", "Goal", "Avg Cost"}),
	)
	for _, product := range core.SortedKeys(products) {
		h := res.Inventory.Get(product)
		invTable.Append([]string{
			product,
			fmt.Sprintf("%d", h.Amount),
			fmt.Sprintf("%d", rep.goal[product]),
			fmt.Sprintf("%.1f", h.AverageCost()),
		})
	}
	invTable.Render()
	fmt.Println()

	infoColor.Printf("Turns:     %d (%s)\n", res.Turns, res.Duration)
	infoColor.Printf("Trades:    %d bought, %d sold, %d rejected\n",
		rep.history.Trades(core.CmdBuy), rep.history.Trades(core.CmdSell), res.Rejected)
	infoColor.Printf("Escapes:   %d\n", rep.history.Escapes())
	if len(res.Black) > 0 {
		infoColor.Printf("Black:     %s\n", strings.Join(res.Black, ", "))
	}
	goldLine := fmt.Sprintf("Gold:      %d", res.Gold)
	if res.Gold < 0 {
		color.Red("%s", goldLine)
	} else {
		infoColor.Println(goldLine)
	}

	if res.GoalAchieved {
		color.Green("Goal:      achieved on turn %d", rep.history.GoalTurn())
	} else {
		color.Red("Goal:      missed")
	}
	color.New(color.FgGreen, color.Bold).Printf("Score:     %d\n", res.Score)
}
