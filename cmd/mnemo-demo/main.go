// Command mnemo-demo runs a scripted conversation through memory extraction
// and then answers the same question in every personality, printing the
// results side by side.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mnemolabs/mnemo/config"
	"github.com/mnemolabs/mnemo/core"
	"github.com/mnemolabs/mnemo/engine"
)

var sampleMessages = []core.Message{
	{Role: "user", Content: "Hi, I'm Sarah. I'm a software engineer from San Francisco."},
	{Role: "assistant", Content: "Nice to meet you, Sarah! How can I help you today?"},
	{Role: "user", Content: "I've been feeling really stressed lately. Work has been overwhelming."},
	{Role: "assistant", Content: "I'm sorry to hear that. Stress can be really tough to deal with."},
	{Role: "user", Content: "Yeah, I love my job but the deadlines are killing me. I work best when I listen to jazz music."},
	{Role: "assistant", Content: "That's interesting! Music can be a great stress reliever."},
	{Role: "user", Content: "I'm also training for a marathon. Running helps me clear my mind."},
	{Role: "assistant", Content: "That's awesome! Running is great for both physical and mental health."},
	{Role: "user", Content: "I have a dog named Max. He's a golden retriever and I love taking him to the park."},
	{Role: "assistant", Content: "Dogs are wonderful companions! Max sounds lovely."},
	{Role: "user", Content: "I'm really anxious about my upcoming presentation next week. It's for a big client."},
	{Role: "assistant", Content: "Presentations can be nerve-wracking. Have you prepared well?"},
	{Role: "user", Content: "I've prepared, but I always get nervous speaking in front of people. Public speaking is my biggest fear."},
	{Role: "assistant", Content: "That's completely understandable. Many people feel that way."},
	{Role: "user", Content: "I prefer working from home. The office environment is too distracting for me."},
	{Role: "assistant", Content: "Remote work has its benefits, especially for focus."},
	{Role: "user", Content: "I'm a vegetarian. I've been one for 5 years now."},
	{Role: "assistant", Content: "That's a significant lifestyle choice. What inspired you?"},
	{Role: "user", Content: "I love reading science fiction novels. Isaac Asimov is my favorite author."},
	{Role: "assistant", Content: "Asimov is a classic! Have you read the Foundation series?"},
	{Role: "user", Content: "Yes! I've read all of them. I also enjoy playing chess in my free time."},
	{Role: "assistant", Content: "Chess is a great mental exercise!"},
	{Role: "user", Content: "I'm planning a trip to Japan next month. It's my first time traveling to Asia."},
	{Role: "assistant", Content: "Japan is amazing! Are you excited?"},
	{Role: "user", Content: "Very excited but also a bit nervous. I don't speak Japanese."},
	{Role: "assistant", Content: "That's normal. Many people travel there without speaking the language."},
	{Role: "user", Content: "I get really happy when I see my friends. Social connections are important to me."},
	{Role: "assistant", Content: "That's wonderful! Strong relationships are key to well-being."},
	{Role: "user", Content: "I've been learning Spanish for 6 months. I practice every day for 30 minutes."},
	{Role: "assistant", Content: "Consistency is key to language learning!"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	var opts []engine.ClientOption
	if cfg.Model != "" {
		opts = append(opts, engine.WithModel(cfg.Model))
	}
	completer := engine.NewClient(cfg.AnthropicAPIKey, opts...)
	extractor := engine.NewExtractor(completer)
	generator := engine.NewGenerator(completer)

	ctx := context.Background()
	rule := strings.Repeat("=", 80)

	fmt.Println(rule)
	fmt.Println("MEMORY EXTRACTION DEMO")
	fmt.Println(rule)
	fmt.Printf("\nAnalyzing %d sample messages...\n\n", len(sampleMessages))

	mem := extractor.Extract(ctx, sampleMessages)

	fmt.Println(rule)
	fmt.Println("EXTRACTED MEMORY")
	fmt.Println(rule)
	fmt.Println(engine.Summary(mem))

	testMessages := append(sampleMessages, core.Message{
		Role:    "user",
		Content: "I'm feeling overwhelmed with everything I have to do. Any advice?",
	})

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("PERSONALITY COMPARISON")
	fmt.Println(rule)
	fmt.Printf("\nUser Message: %q\n", core.LastContent(testMessages))

	for _, key := range engine.PersonalityKeys {
		fmt.Printf("\n%s\n", strings.Repeat("-", 80))
		fmt.Println(strings.ToUpper(engine.PersonalityFor(key).Name))
		fmt.Println(strings.Repeat("-", 80))
		fmt.Println(generator.Reply(ctx, testMessages, key, mem))
	}

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("DEMO COMPLETE")
	fmt.Println(rule)
}
