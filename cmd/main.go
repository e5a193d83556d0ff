package main

import (
	"fmt"
	"os"

	"github.com/rescuefs/rescuer/cmd/cmd"
	"github.com/rescuefs/rescuer/internal/env"
)

func main() {
	printLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printLogo() {
	fmt.Println("                                      ")
	fmt.Println(" _ __ ___  ___  ___ _   _  ___ _ __   ")
	fmt.Println("| '__/ _ \\/ __|/ __| | | |/ _ \\ '__|  ")
	fmt.Println("| | |  __/\\__ \\ (__| |_| |  __/ |     ")
	fmt.Println("|_|  \\___||___/\\___|\\__,_|\\___|_|     ")
	fmt.Println()
	fmt.Println("Media recovery for raw disks and images")
	fmt.Println()
	fmt.Printf("Version:    %s\n", env.Version)
	fmt.Printf("Commit:     %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println()
}
