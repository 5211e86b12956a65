package ffmpeg

// argBuilder assembles an ffmpeg argv. Every command starts with -y and a
// single -i input and ends with the output path.
type argBuilder struct {
	args []string
}

func newArgs(input string) *argBuilder {
	return &argBuilder{args: []string{"-y", "-i", input}}
}

func (b *argBuilder) add(args ...string) *argBuilder {
	b.args = append(b.args, args...)
	return b
}

func (b *argBuilder) build(output string) []string {
	return append(b.args, output)
}
