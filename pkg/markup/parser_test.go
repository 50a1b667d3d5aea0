package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colored(c Color) Style {
	return Style{}.WithColor(c)
}

func mustParse(t *testing.T, input string, placeholders Placeholders) *Node {
	t.Helper()
	node, err := New().Parse(input, placeholders)
	require.NoError(t, err)
	return node
}

func TestParse_EquivalentInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		other string
	}{
		{"named close", "<yellow>TEST<green> nested</green>Test", "<yellow>TEST<green> nested<yellow>Test"},
		{"color tag", "<color:yellow>TEST<color:green> nested</color:green>Test", "<color:yellow>TEST<color:green> nested<color:yellow>Test"},
		{"hex color arg", "<color:#ff00ff>TEST<color:#00ff00> nested</color:#00ff00>Test", "<color:#ff00ff>TEST<color:#00ff00> nested<color:#ff00ff>Test"},
		{"hex color tag", "<#ff00ff>TEST<#00ff00> nested</#00ff00>Test", "<#ff00ff>TEST<#00ff00> nested<#ff00ff>Test"},
		{"aliases", "<b><i><u><st><obf>x", "<bold><italic><underlined><strikethrough><obfuscated>x"},
		{"grey alias", "<grey>x</gray>", "<gray>x"},
		{"case insensitive names", "<YELLOW><Bold>x", "<yellow><bold>x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, mustParse(t, tt.input, nil), mustParse(t, tt.other, nil))
		})
	}
}

func TestParse_Empty(t *testing.T) {
	assert.Equal(t, Text("", Style{}), mustParse(t, "", nil))
}

func TestParse_ColorSimple(t *testing.T) {
	assert.Equal(t, Text("TEST", colored(Yellow)), mustParse(t, "<yellow>TEST", nil))
}

func TestParse_ColorNested(t *testing.T) {
	expected := Branch(
		Text("TEST", colored(Yellow)),
		Text("nested", colored(Green)),
		Text("Test", colored(Yellow)),
	)
	assert.Equal(t, expected, mustParse(t, "<yellow>TEST<green>nested</green>Test", nil))
}

func TestParse_ColorNotNested(t *testing.T) {
	expected := Branch(
		Text("TEST", colored(Yellow)),
		Text("nested", colored(Green)),
		Text("Test", Style{}),
	)
	assert.Equal(t, expected, mustParse(t, "<yellow>TEST</yellow><green>nested</green>Test", nil))
}

func TestParse_CSSColor(t *testing.T) {
	node := mustParse(t, "<color:rgb(255,0,128)>x", nil)
	require.NotNil(t, node.Style.Color)
	assert.Equal(t, uint32(0xff0080), node.Style.Color.Value)
}

func TestParse_Placeholder(t *testing.T) {
	assert.Equal(t, Text("Hello!", Style{}), mustParse(t, "<test>", TextPlaceholders("test", "Hello!")))
}

func TestParse_NiceMix(t *testing.T) {
	input := "<yellow><test> random <bold>stranger</bold><click:run_command:test command><underlined><red>click here</click><blue> to <b>FEEL</underlined> it"
	expected := Branch(
		Text("Hello! random ", colored(Yellow)),
		Text("stranger", colored(Yellow).WithDecoration(Bold)),
		Text("click here", colored(Red).WithDecoration(Underlined).WithClick(RunCommand, "test command")),
		Text(" to ", colored(Blue).WithDecoration(Underlined)),
		Text("FEEL", colored(Blue).WithDecoration(Bold|Underlined)),
		Text(" it", colored(Blue).WithDecoration(Bold)),
	)
	assert.Equal(t, expected, mustParse(t, input, TextPlaceholders("test", "Hello!")))
}

func TestParse_Hover(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hover *Node
	}{
		{"double quoted", `<hover:show_text:"<red>test">TEST`, Text("test", colored(Red))},
		{"single quoted", `<hover:show_text:'<red>test'>TEST`, Text("test", colored(Red))},
		{"colon in value", `<hover:show_text:"<red>test:TEST">TEST`, Text("test:TEST", colored(Red))},
		{"multiline", "<hover:show_text:'<red>test\ntest2'>TEST", Text("test\ntest2", colored(Red))},
		{"unquoted with colons", `<hover:show_text:a:b>TEST`, Text("a:b", Style{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Text("TEST", Style{}.WithHover(tt.hover)), mustParse(t, tt.input, nil))
		})
	}
}

func TestParse_HoverDoesNotInheritByDefault(t *testing.T) {
	input := "<red><hover:show_text:'Message 1\nMessage 2'>My Message"
	expected := Text("My Message", colored(Red).WithHover(Text("Message 1\nMessage 2", Style{})))
	assert.Equal(t, expected, mustParse(t, input, nil))
}

func TestParse_InheritedArgumentStyle(t *testing.T) {
	p := New(WithInheritedArgumentStyle(true))
	node, err := p.Parse("<red><hover:show_text:'x'>y", nil)
	require.NoError(t, err)
	assert.Equal(t, Text("y", colored(Red).WithHover(Text("x", colored(Red)))), node)
}

func TestParse_Click(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		action ClickAction
		value  string
	}{
		{"simple", "<click:run_command:test>TEST", RunCommand, "test"},
		{"extended command", "<click:run_command:/test command>TEST", RunCommand, "/test command"},
		{"url with colon", "<click:open_url:https://example.com>TEST", OpenURL, "https://example.com"},
		{"action case", "<click:SUGGEST_COMMAND:/msg>TEST", SuggestCommand, "/msg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Text("TEST", Style{}.WithClick(tt.action, tt.value)), mustParse(t, tt.input, nil))
		})
	}
}

func TestParse_InvalidTag(t *testing.T) {
	assert.Equal(t, Text("<test>", Style{}), mustParse(t, "<test>", nil))
}

func TestParse_InvalidTagComplex(t *testing.T) {
	input := "<yellow><test> random <bold>stranger</bold><click:run_command:test command><oof></oof><underlined><red>click here</click><blue> to <bold>FEEL</underlined> it"
	clicked := colored(Yellow).WithClick(RunCommand, "test command")
	expected := Branch(
		Text("<test>", colored(Yellow)),
		Text(" random ", colored(Yellow)),
		Text("stranger", colored(Yellow).WithDecoration(Bold)),
		Text("<oof>", clicked),
		Text("</oof>", clicked),
		Text("click here", colored(Red).WithDecoration(Underlined).WithClick(RunCommand, "test command")),
		Text(" to ", colored(Blue).WithDecoration(Underlined)),
		Text("FEEL", colored(Blue).WithDecoration(Bold|Underlined)),
		Text(" it", colored(Blue).WithDecoration(Bold)),
	)
	assert.Equal(t, expected, mustParse(t, input, nil))
}

func TestParse_Keybind(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		expected := Branch(
			Text("Press ", Style{}),
			Keybind("key.jump", Style{}),
			Text(" to jump!", Style{}),
		)
		assert.Equal(t, expected, mustParse(t, "Press <key:key.jump> to jump!", nil))
	})

	t.Run("with color", func(t *testing.T) {
		expected := Branch(
			Text("Press ", Style{}),
			Keybind("key.jump", colored(Red)),
			Text(" to jump!", colored(Red)),
		)
		assert.Equal(t, expected, mustParse(t, "Press <red><key:key.jump> to jump!", nil))
	})

	t.Run("close is ignored", func(t *testing.T) {
		expected := Branch(Keybind("key.jump", Style{}), Text("!", Style{}))
		assert.Equal(t, expected, mustParse(t, "<key:key.jump></key>!", nil))
	})
}

func TestParse_Translatable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Node
	}{
		{
			name:  "no arguments",
			input: "You should get a <lang:block.minecraft.diamond_block>!",
			expected: Branch(
				Text("You should get a ", Style{}),
				Translatable("block.minecraft.diamond_block", Style{}),
				Text("!", Style{}),
			),
		},
		{
			name:  "with arguments",
			input: "Test: <lang:commands.drop.success.single:'<red>1':'<blue>Stone'>!",
			expected: Branch(
				Text("Test: ", Style{}),
				Translatable("commands.drop.success.single", Style{},
					Text("1", colored(Red)),
					Text("Stone", colored(Blue)),
				),
				Text("!", Style{}),
			),
		},
		{
			name:  "argument with hover",
			input: `Test: <lang:commands.drop.success.single:'<hover:show_text:\'<red>dum\'><red>1':'<blue>Stone'>!`,
			expected: Branch(
				Text("Test: ", Style{}),
				Translatable("commands.drop.success.single", Style{},
					Text("1", colored(Red).WithHover(Text("dum", colored(Red)))),
					Text("Stone", colored(Blue)),
				),
				Text("!", Style{}),
			),
		},
		{
			name:  "key with dash",
			input: "Ahoy <lang:offset.-40:'<red>mates!'>",
			expected: Branch(
				Text("Ahoy ", Style{}),
				Translatable("offset.-40", Style{}, Text("mates!", colored(Red))),
			),
		},
		{
			name:  "alias",
			input: "<tr:item.name>",
			expected: Translatable("item.name", Style{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustParse(t, tt.input, nil))
		})
	}
}

func TestParse_Insertion(t *testing.T) {
	expected := Branch(
		Text("Click ", Style{}),
		Text("this", Style{}.WithInsertion("test")),
		Text(" to insert!", Style{}),
	)
	assert.Equal(t, expected, mustParse(t, "Click <insert:test>this</insert> to insert!", nil))
}

func TestParse_PlaceholderInArgument(t *testing.T) {
	hover := Text("/!\\ install it from Options/ResourcePacks in your game", colored(Green))
	clickHere := Text("CLICK HERE", colored(Green).WithDecoration(Bold).WithClick(OpenURL, "https://www.google.com").WithHover(hover))
	expected := Branch(
		Text("»", colored(DarkGray)),
		Text(" To download it from the internet, ", colored(Gray)),
		clickHere,
	)

	t.Run("placeholder url", func(t *testing.T) {
		input := `<dark_gray>»<gray> To download it from the internet, <click:open_url:<pack_url>><hover:show_text:"<green>/!\ install it from Options/ResourcePacks in your game"><green><bold>CLICK HERE</bold></hover></click>`
		assert.Equal(t, expected, mustParse(t, input, TextPlaceholders("pack_url", "https://www.google.com")))
	})

	t.Run("quoted url", func(t *testing.T) {
		input := `<dark_gray>»<gray> To download it from the internet, <click:open_url:"https://www.google.com"><hover:show_text:"<green>/!\ install it from Options/ResourcePacks in your game"><green><bold>CLICK HERE</bold></hover></click>`
		assert.Equal(t, expected, mustParse(t, input, nil))
		assert.Equal(t, expected, mustParse(t, input, TextPlaceholders("url", "https://www.google.com")))
	})

	t.Run("escaped quotes in hover", func(t *testing.T) {
		input := `<dark_gray>»<gray> To download it from the internet, <click:open_url:<pack_url>><hover:show_text:'<green>/!\ install it from \'Options/ResourcePacks\' in your game'><green><bold>CLICK HERE</bold></hover></click>`
		modified := Branch(
			Text("»", colored(DarkGray)),
			Text(" To download it from the internet, ", colored(Gray)),
			Text("CLICK HERE", colored(Green).WithDecoration(Bold).WithClick(OpenURL, "https://www.google.com").
				WithHover(Text("/!\\ install it from 'Options/ResourcePacks' in your game", colored(Green)))),
		)
		assert.Equal(t, modified, mustParse(t, input, TextPlaceholders("pack_url", "https://www.google.com")))
	})
}

func TestParse_Reset(t *testing.T) {
	insert := Style{}.WithInsertion("test")
	expected := Branch(
		Text("Click ", Style{}),
		Text("this", colored(Yellow).WithInsertion("test")),
		Text(" ", insert.WithColor(HexColor(0xf3801f))),
		Text("w", insert.WithColor(HexColor(0x71f813))),
		Text("o", insert.WithColor(HexColor(0x03ca9c))),
		Text("o", insert.WithColor(HexColor(0x4135fe))),
		Text("o", insert.WithColor(HexColor(0xd507b1))),
		Text(" to insert!", Style{}),
	)
	assert.Equal(t, expected, mustParse(t, "Click <yellow><insert:test>this<rainbow> wooo<reset> to insert!", nil))
}

func TestParse_Pre(t *testing.T) {
	expected := Branch(
		Text("Click ", Style{}),
		Text("<insert:test>", colored(Yellow)),
		Text("this", colored(Yellow)),
		Text(" to ", colored(Yellow)),
		Text("insert!", colored(Red)),
	)
	assert.Equal(t, expected, mustParse(t, "Click <yellow><pre><insert:test>this</pre> to <red>insert!", nil))
}

func TestParse_Font(t *testing.T) {
	uniform := Key{Namespace: "minecraft", Value: "uniform"}
	alt := Key{Namespace: "minecraft", Value: "alt"}
	expected := Branch(
		Text("Nothing ", Style{}),
		Text("Uniform ", Style{}.WithFont(uniform)),
		Text("Alt  ", Style{}.WithFont(alt)),
		Text(" Uniform", Style{}.WithFont(uniform)),
	)
	assert.Equal(t, expected, mustParse(t, "Nothing <font:minecraft:uniform>Uniform <font:minecraft:alt>Alt  </font> Uniform", nil))
}

func TestParse_NonStrict(t *testing.T) {
	input := "<gray>Example: <click:suggest_command:/plot flag set coral-dry true><gold>/plot flag set coral-dry true<click></gold></gray>"
	suggest := colored(Gold).WithClick(SuggestCommand, "/plot flag set coral-dry true")
	expected := Branch(
		Text("Example: ", colored(Gray)),
		Text("/plot flag set coral-dry true", suggest),
		Text("<click>", suggest),
	)
	assert.Equal(t, expected, mustParse(t, input, nil))

	_, err := Parse(input, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArityMismatch))
}

func TestParse_EscapedBracketWithPlaceholders(t *testing.T) {
	expected := Branch(
		Text("<", colored(Gray)),
		Text("Patbox", colored(Yellow)),
		Text("> ", colored(Gray)),
		Text("am dum", Style{}),
	)
	input := `<gray>\<<yellow><player><gray>> <reset><pre><message></pre>`
	assert.Equal(t, expected, mustParse(t, input, TextPlaceholders("player", "Patbox", "message", "am dum")))
}

func TestParse_TreePlaceholder(t *testing.T) {
	name := Branch(Text("Bob", Style{}.WithDecoration(Bold)), Keybind("key.jump", Style{}))
	expected := Branch(
		Text("Hi ", colored(Red)),
		Text("Bob", colored(Red).WithDecoration(Bold)),
		Keybind("key.jump", colored(Red)),
		Text("!", colored(Red)),
	)
	assert.Equal(t, expected, mustParse(t, "<red>Hi <name>!", Placeholders{}.WithTree("name", name)))

	// The placeholder value is not modified by the parse
	assert.Equal(t, Style{}.WithDecoration(Bold), name.Children[0].Style)
}

func TestParse_PlaceholderNamesAreCaseSensitive(t *testing.T) {
	node := mustParse(t, "<Test>", TextPlaceholders("test", "Hello!"))
	assert.Equal(t, Text("<Test>", Style{}), node)
}

func TestParse_DoubleNewLine(t *testing.T) {
	assert.Equal(t, Text("Hello\n\nWorld", colored(Red)), mustParse(t, "<red>Hello\n\nWorld", nil))
}

func TestParse_Unescape(t *testing.T) {
	node := mustParse(t, `<yellow>TEST\<green> nested\</green>Test`, nil)
	assert.Equal(t, "TEST<green> nested</green>Test", node.PlainText())
}

func TestParse_EscapeRoundTrip(t *testing.T) {
	const input = "<red>test</red>"
	node := mustParse(t, EscapeTokens(input), nil)
	assert.Equal(t, input, node.PlainText())
}

func TestParse_StrictErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		kind     ErrorKind
		token    string
	}{
		{"unknown tag", "a <bogus> b", ErrUnknownTag, UnknownTag, "<bogus>"},
		{"unknown close", "a </bogus> b", ErrUnknownTag, UnknownTag, "</bogus>"},
		{"too few arguments", "<click:open_url>x", ErrArityMismatch, ArityMismatch, "<click:open_url>"},
		{"too many arguments", "<rainbow:1:2>x", ErrArityMismatch, ArityMismatch, "<rainbow:1:2>"},
		{"bad color", "<color:nope>x", ErrInvalidArgument, InvalidArgument, "<color:nope>"},
		{"bad click action", "<click:explode:now>x", ErrInvalidArgument, InvalidArgument, "<click:explode:now>"},
		{"bad gradient phase", "<gradient:red:blue:2>x", ErrInvalidArgument, InvalidArgument, "<gradient:red:blue:2>"},
		{"single gradient color", "<gradient:red>x", ErrInvalidArgument, InvalidArgument, "<gradient:red>"},
		{"bad font", "<font:Bad Key>x", ErrInvalidArgument, InvalidArgument, "<font:Bad Key>"},
		{"unmatched close", "x</bold>", ErrUnmatchedClose, UnmatchedClose, "</bold>"},
		{
			"missing close of hover",
			"<hover:show_text:'<blue>Hello</blue>'<red>TEST</red></hover><click:suggest_command:'/msg <user>'><user></click> <reset>: <hover:show_text:'<date>'><message></hover>",
			ErrUnmatchedClose, UnmatchedClose, "</hover>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, nil, true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.token, perr.Token)
		})
	}
}

func TestParse_InvalidArgumentWrapsCause(t *testing.T) {
	_, err := Parse("<gradient:red:blue:2>x", nil, true)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Error(t, perr.Err)
	assert.Contains(t, err.Error(), "outside [-1, 1]")
}

func TestParse_LenientRecovers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Node
	}{
		{"bad color literal", "<red><color:nope>x", Branch(Text("<color:nope>", colored(Red)), Text("x", colored(Red)))},
		{"unmatched close dropped", "a</bold>b", Branch(Text("a", Style{}), Text("b", Style{}))},
		{"unknown close literal", "a</bogus>", Branch(Text("a", Style{}), Text("</bogus>", Style{}))},
		{"unterminated tag is text", "I <3 you", Text("I <3 you", Style{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var messages []string
			node, err := New(WithErrorHandler(func(msg string) { messages = append(messages, msg) })).Parse(tt.input, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, node)
			assert.NotEmpty(t, messages)
		})
	}
}

func TestParse_NonEndingTagReported(t *testing.T) {
	var messages []string
	p := New(WithErrorHandler(func(msg string) { messages = append(messages, msg) }))

	node, err := p.Parse("<red is already created! Try different name! :)", nil)
	require.NoError(t, err)
	assert.Equal(t, "<red is already created! Try different name! :)", node.PlainText())
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "unterminated tag")
}

func TestParse_UnclosedAtEndOfInput(t *testing.T) {
	t.Run("reported in strict mode", func(t *testing.T) {
		var messages []string
		p := New(WithStrict(true), WithErrorHandler(func(msg string) { messages = append(messages, msg) }))
		node, err := p.Parse("<red><bold>x", nil)
		require.NoError(t, err)
		assert.Equal(t, Text("x", colored(Red).WithDecoration(Bold)), node)
		assert.Len(t, messages, 2)
	})

	t.Run("fatal when closing is required", func(t *testing.T) {
		p := New(WithStrict(true), WithRequireClosedTags(true))
		_, err := p.Parse("<red>x", nil)
		assert.True(t, errors.Is(err, ErrUnclosedAtEndOfInput))

		_, err = p.Parse("<red>x</red><reset>y", nil)
		assert.NoError(t, err)
	})

	t.Run("fatal without strict when closing is required", func(t *testing.T) {
		p := New(WithRequireClosedTags(true))
		_, err := p.Parse("<gradient>x<bold>y</bold>", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnclosedAtEndOfInput))

		// reset closes nothing that needs closing
		_, err = p.Parse("<reset>x", nil)
		assert.NoError(t, err)
	})

	t.Run("silent in lenient mode", func(t *testing.T) {
		var messages []string
		p := New(WithErrorHandler(func(msg string) { messages = append(messages, msg) }))
		_, err := p.Parse("<red>x", nil)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}

func TestParse_DepthLimit(t *testing.T) {
	hovers := `<hover:show_text:'<hover:show_text:\'x\'>y'>z`

	_, err := New(WithMaxDepth(3)).Parse(hovers, nil)
	assert.NoError(t, err)

	_, err = New(WithMaxDepth(2)).Parse(hovers, nil)
	assert.True(t, errors.Is(err, ErrDepthExceeded))

	// Open scopes are not nesting
	_, err = New(WithMaxDepth(1)).Parse("<red><bold><italic><underlined><rainbow>x", nil)
	assert.NoError(t, err)
}

func TestParse_ManyColorSwitches(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 256; i++ {
		fmt.Fprintf(&sb, "<#%02x%02x%02x>x", i, 255-i, i/2)
	}

	for _, strict := range []bool{false, true} {
		node, err := Parse(sb.String(), nil, strict)
		require.NoError(t, err)
		leaves := node.Leaves()
		require.Len(t, leaves, 256)
		assert.Equal(t, "#ff007f", leaves[255].Style.Color.Hex())
	}
}

func TestParse_ReopenEquivalentToCloseAtScale(t *testing.T) {
	closed := strings.Repeat("<red>r</red><green>g</green>", 200)
	reopened := strings.Repeat("<red>r<green>g", 200)

	want, err := Parse(closed, nil, false)
	require.NoError(t, err)
	got, err := Parse(reopened, nil, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParse_LogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	p := New(WithLogger(zerolog.New(&buf)))

	_, err := p.Parse("<bogus>", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"kind":"unknown tag"`)
	assert.Contains(t, buf.String(), `"token":"<bogus>"`)
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := New()
	done := make(chan *Node)
	for range 8 {
		go func() {
			node, _ := p.Parse("<rainbow>hello</rainbow> <red>world", nil)
			done <- node
		}()
	}
	first := <-done
	for range 7 {
		assert.Equal(t, first, <-done)
	}
}
