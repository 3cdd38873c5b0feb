package sse_test

import (
	"bytes"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/logger"
	"github.com/papercomputeco/sdr/pkg/sse"
)

// decodeChunks feeds every chunk to a fresh decoder and flushes it.
func decodeChunks(chunks [][]byte, opts ...sse.Option) []sse.Frame {
	dec := sse.NewDecoder(opts...)

	var frames []sse.Frame
	for _, chunk := range chunks {
		got, err := dec.Feed(chunk)
		Expect(err).NotTo(HaveOccurred())
		frames = append(frames, got...)
	}
	return append(frames, dec.Flush()...)
}

// serverStream mirrors what the SDR server writes for a chat turn with one tool call.
const serverStream = "event: thinking\ndata: {\"status\": \"processing\"}\n\n" +
	"event: tool\ndata: {\"name\": \"web_search\", \"input\": {\"query\": \"Anthropic\"}}\n\n" +
	"event: tool_result\ndata: {\"name\": \"web_search\", \"success\": true}\n\n" +
	"event: content\ndata: {\"text\": \"Anthropic builds Claude — 世界 ✓\"}\n\n" +
	"event: done\ndata: {\"status\": \"complete\"}\n\n"

var _ = Describe("Decoder", func() {
	Describe("Feed", func() {
		It("emits an event type frame and a data frame in order", func() {
			frames := decodeChunks([][]byte{
				[]byte("event: tool\n"),
				[]byte("data: {\"name\":\"web_search\"}\n"),
			})

			Expect(frames).To(HaveLen(2))
			Expect(frames[0]).To(Equal(sse.EventTypeFrame("tool")))
			Expect(frames[1].Kind).To(Equal(sse.FrameData))
			Expect(frames[1].Data).To(MatchJSON(`{"name":"web_search"}`))
		})

		It("emits event names without validating them", func() {
			frames := decodeChunks([][]byte{[]byte("event: something_new\n")})
			Expect(frames).To(ConsistOf(sse.EventTypeFrame("something_new")))
		})

		It("ignores blank lines, comments, and unknown fields", func() {
			frames := decodeChunks([][]byte{[]byte("\n: keep-alive\nid: 7\nretry: 3000\ndata:{\"x\":1}\n\n")})
			Expect(frames).To(BeEmpty())
		})

		It("strips a carriage return from event names", func() {
			frames := decodeChunks([][]byte{[]byte("event: content\r\ndata: {\"text\":\"hi\"}\r\n")})

			Expect(frames).To(HaveLen(2))
			Expect(frames[0].EventType).To(Equal("content"))
			Expect(frames[1].Data).To(MatchJSON(`{"text":"hi"}`))
		})

		It("accepts any JSON value as data", func() {
			frames := decodeChunks([][]byte{[]byte("data: 42\ndata: \"str\"\ndata: [1,2]\ndata: null\n")})
			Expect(frames).To(HaveLen(4))
		})

		It("keeps an incomplete line buffered until its newline arrives", func() {
			dec := sse.NewDecoder()

			frames, err := dec.Feed([]byte("data: {\"text\":"))
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(BeEmpty())
			Expect(dec.Buffered()).To(Equal(len("data: {\"text\":")))

			frames, err = dec.Feed([]byte("\"done\"}\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Data).To(MatchJSON(`{"text":"done"}`))
			Expect(dec.Buffered()).To(BeZero())
		})

		It("fails when a line outgrows the maximum size", func() {
			dec := sse.NewDecoder(sse.WithMaxLineSize(16))

			_, err := dec.Feed([]byte("data: {\"text\": \"this will not fit\""))
			Expect(err).To(MatchError(sse.ErrLineTooLong))
		})

		It("returns frames decoded before an oversized line", func() {
			dec := sse.NewDecoder(sse.WithMaxLineSize(16))

			frames, err := dec.Feed([]byte("event: ok\ndata: {\"text\": \"this will not fit\"}\n"))
			Expect(err).To(MatchError(sse.ErrLineTooLong))
			Expect(frames).To(ConsistOf(sse.EventTypeFrame("ok")))
		})
	})

	Describe("malformed data", func() {
		It("drops invalid JSON without ending the stream", func() {
			frames := decodeChunks([][]byte{
				[]byte("data: {not json}\n"),
				[]byte("data: \n"),
				[]byte("data: {\"text\":\"after\"}\n"),
			})

			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Data).To(MatchJSON(`{"text":"after"}`))
		})

		It("logs the dropped line at debug level", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))

			decodeChunks([][]byte{[]byte("data: {broken\n")}, sse.WithLogger(l))
			Expect(buf.String()).To(ContainSubstring("failed to parse SSE data"))
		})

		It("stays quiet at info level", func() {
			var buf bytes.Buffer
			l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			decodeChunks([][]byte{[]byte("data: {broken\n")}, sse.WithLogger(l))
			Expect(buf.String()).To(BeEmpty())
		})
	})

	Describe("UTF-8 across chunk boundaries", func() {
		It("reassembles a multi-byte character split between reads", func() {
			line := []byte("data: {\"text\":\"héllo 世界\"}\n")
			split := bytes.Index(line, []byte("世")) + 1

			frames := decodeChunks([][]byte{line[:split], line[split:]})
			Expect(frames).To(HaveLen(1))

			var payload struct {
				Text string `json:"text"`
			}
			Expect(frames[0].Decode(&payload)).To(Succeed())
			Expect(payload.Text).To(Equal("héllo 世界"))
		})

		It("replaces invalid sequences instead of failing", func() {
			frames := decodeChunks([][]byte{[]byte("event: bad\xffname\n")})
			Expect(frames).To(ConsistOf(sse.EventTypeFrame("bad\uFFFDname")))
		})
	})

	Describe("chunking invariance", func() {
		var whole []sse.Frame

		BeforeEach(func() {
			whole = decodeChunks([][]byte{[]byte(serverStream)})
			Expect(whole).To(HaveLen(10))
		})

		It("yields the same frames for every two-way split", func() {
			input := []byte(serverStream)
			for i := range len(input) + 1 {
				frames := decodeChunks([][]byte{input[:i], input[i:]})
				Expect(frames).To(Equal(whole), "split at byte %d", i)
			}
		})

		It("yields the same frames when fed one byte at a time", func() {
			input := []byte(serverStream)
			chunks := make([][]byte, 0, len(input))
			for i := range input {
				chunks = append(chunks, input[i:i+1])
			}
			Expect(decodeChunks(chunks)).To(Equal(whole))
		})

		DescribeTable("yields the same frames for fixed-size chunks",
			func(size int) {
				input := []byte(serverStream)
				var chunks [][]byte
				for start := 0; start < len(input); start += size {
					end := min(start+size, len(input))
					chunks = append(chunks, input[start:end])
				}
				Expect(decodeChunks(chunks)).To(Equal(whole))
			},
			Entry("2 bytes", 2),
			Entry("3 bytes", 3),
			Entry("7 bytes", 7),
			Entry("64 bytes", 64),
		)
	})

	Describe("Flush", func() {
		const unterminated = "event: done\ndata: {\"status\":\"complete\"}"

		It("parses the unterminated trailing line by default", func() {
			frames := decodeChunks([][]byte{[]byte(unterminated)})

			Expect(frames).To(HaveLen(2))
			Expect(frames[1].Data).To(MatchJSON(`{"status":"complete"}`))
		})

		It("drops the unterminated trailing line with DropTrailing", func() {
			frames := decodeChunks([][]byte{[]byte(unterminated)}, sse.WithTrailingLine(sse.DropTrailing))
			Expect(frames).To(ConsistOf(sse.EventTypeFrame("done")))
		})

		It("returns nothing when the buffer is empty", func() {
			dec := sse.NewDecoder()
			Expect(dec.Flush()).To(BeEmpty())
		})
	})
})

var _ = Describe("Frame", func() {
	It("decodes data payloads", func() {
		f := sse.DataFrame(json.RawMessage(`{"name":"web_search"}`))

		var payload map[string]any
		Expect(f.Decode(&payload)).To(Succeed())
		Expect(payload).To(HaveKeyWithValue("name", "web_search"))
	})

	It("refuses to decode event type frames", func() {
		var payload map[string]any
		Expect(sse.EventTypeFrame("tool").Decode(&payload)).NotTo(Succeed())
	})

	It("names its kinds", func() {
		Expect(sse.FrameEventType.String()).To(Equal("eventType"))
		Expect(sse.FrameData.String()).To(Equal("data"))
	})
})
