package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/navichat/vrmkit/converter"
)

func defaultOutputDir(input string) string {
	ext := filepath.Ext(input)
	return input[0:len(input)-len(ext)] + "_extracted"
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.vrm [output_dir]\n", os.Args[0])
		flag.PrintDefaults()
	}
	confFile := flag.String("config", "", "run config file (yaml)")
	defaultUV := flag.String("uv", "", "default UV correction (identity, flip-v, flip-u, flip-both)")
	vocab := flag.String("vocab", "", "bone vocabulary restriction (humanoid, mocap, rigtool)")
	workers := flag.Int("workers", 0, "0:auto")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".vrm" && ext != ".glb" {
		log.Fatal("Unsupported input type: ", ext)
	}

	config := &converter.Config{}
	if *confFile != "" {
		c, err := converter.LoadConfig(*confFile)
		if err != nil {
			log.Fatal(err)
		}
		config = c
	}
	if flag.NArg() > 1 {
		config.OutputDir = flag.Arg(1)
	} else if config.OutputDir == "" {
		config.OutputDir = defaultOutputDir(input)
	}
	if *defaultUV != "" {
		config.DefaultUV = *defaultUV
	}
	if *vocab != "" {
		config.Vocabulary = *vocab
	}
	if *workers > 0 {
		config.Workers = *workers
	}

	conv, err := converter.NewConverter(config)
	if err != nil {
		log.Fatal(err)
	}
	result, err := conv.Convert(input)
	if err != nil {
		log.Fatal(err)
	}
	log.Println(len(result.Manifest.Entries), "meshes ->", config.OutputDir)
}
