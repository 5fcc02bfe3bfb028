// Command remuxer reads a Matroska/WebM file incrementally with Demuxer
// and writes it back out with Muxer, demonstrating the resumable
// demux/mux pair independent of the whole-file convenience API.
package main

import (
	"fmt"
	"io"
	"os"

	matroska "github.com/nilsbruns/goebml"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <input.mkv> <output.mkv>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, "remuxer:", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	demux := matroska.NewDemuxer(matroska.DemuxerParams{})
	buf, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	global, err := demux.ReadHeaders(buf)
	if err != nil {
		return fmt.Errorf("read headers: %w", err)
	}

	mux := matroska.NewMuxer(matroska.MuxerParams{
		MuxingApp:  "goebml remuxer",
		WritingApp: "goebml remuxer",
	})
	if err := mux.SetGlobalInfo(global.Info.Duration, global.Info.HasDuration, global.Streams); err != nil {
		return fmt.Errorf("set global info: %w", err)
	}

	header, err := mux.WriteHeader()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := out.Write(header); err != nil {
		return fmt.Errorf("write header bytes: %w", err)
	}

	var packetCount int
	for {
		packet, err := demux.NextPacket(buf[demux.Consumed():])
		if err != nil {
			return fmt.Errorf("next packet: %w", err)
		}
		if packet == nil {
			break
		}
		flushed, err := mux.WritePacket(*packet)
		if err != nil {
			return fmt.Errorf("write packet: %w", err)
		}
		if len(flushed) > 0 {
			if _, err := out.Write(flushed); err != nil {
				return fmt.Errorf("write cluster: %w", err)
			}
		}
		packetCount++
	}

	trailer, err := mux.WriteTrailer()
	if err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	if len(trailer) > 0 {
		if _, err := out.Write(trailer); err != nil {
			return fmt.Errorf("write trailer bytes: %w", err)
		}
	}

	fmt.Printf("remuxed %d packets\n", packetCount)
	return nil
}
