package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/trezcool/carnet/core/teacher"
)

func (cli *commandLine) levels(ctx context.Context) error {
	dups, err := cli.teacherSvc.DuplicateLevels(ctx)
	if err != nil {
		return err
	}
	if len(dups) == 0 {
		fmt.Fprintln(cli.out, "Every level is held by a single teacher.")
		return nil
	}
	for _, level := range sortedKeys(dups) {
		fmt.Fprintf(cli.out, "Level %s:\n", level)
		for _, t := range dups[level] {
			fmt.Fprintf(cli.out, "  - %s (#%d)\n", t.Name, t.ID)
		}
	}
	return nil
}

func (cli *commandLine) resetSettings(ctx context.Context) error {
	s, err := cli.settingsSvc.Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Settings reset: %d subjects, %d classes, %d levels, %d modules, %d materials.\n",
		len(s.Subjects), len(s.Classes), len(s.Levels), len(s.Modules), len(s.Materials))
	return nil
}

func sortedKeys(m map[string][]teacher.Teacher) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
