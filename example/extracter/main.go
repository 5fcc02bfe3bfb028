// Command extracter demuxes a Matroska/WebM file and writes each track's
// raw packet payloads to its own file alongside the input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	matroska "github.com/nilsbruns/goebml"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <input.mkv>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "extracter:", err)
		os.Exit(1)
	}
}

func run(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	demuxer, err := matroska.NewFileDemuxer(file)
	if err != nil {
		return fmt.Errorf("create demuxer: %w", err)
	}
	defer demuxer.Close()

	fileInfo, err := demuxer.GetFileInfo()
	if err != nil {
		return fmt.Errorf("get file info: %w", err)
	}
	fmt.Printf("duration: %d ticks, timestamp scale: %d\n", fileInfo.Duration, fileInfo.TimecodeScale)

	numTracks, err := demuxer.GetNumTracks()
	if err != nil {
		return fmt.Errorf("get track count: %w", err)
	}

	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	trackFiles := make(map[uint8]*os.File, numTracks)
	defer func() {
		for _, f := range trackFiles {
			_ = f.Close()
		}
	}()

	for i := uint(0); i < numTracks; i++ {
		info, err := demuxer.GetTrackInfo(i)
		if err != nil {
			return fmt.Errorf("get track %d info: %w", i, err)
		}
		fmt.Printf("track %d: number=%d type=%d codec=%s\n", i, info.Number, info.Type, info.CodecID)

		outPath := filepath.Join(dir, fmt.Sprintf("%s.track%d.raw", base, info.Number))
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output for track %d: %w", info.Number, err)
		}
		trackFiles[info.Number] = out
	}

	var packetCount int
	for {
		packet, err := demuxer.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read packet: %w", err)
		}
		if f, ok := trackFiles[packet.Track]; ok {
			if _, err := f.Write(packet.Data); err != nil {
				return fmt.Errorf("write track %d: %w", packet.Track, err)
			}
		}
		packetCount++
	}

	fmt.Printf("wrote %d packets across %d tracks\n", packetCount, numTracks)
	return nil
}
