package twitter

import (
	"strings"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

// Crude lexicon sentiment over Japanese tweet texts. This is a coarse
// heuristic, not NLP: it buckets the net share of opinionated tweets
// into the same five categories the synthetic generator uses.
var (
	positiveWords = []string{
		"好き", "良い", "いい", "最高", "便利", "嬉しい", "楽しい", "おすすめ", "神", "欲しい",
	}
	negativeWords = []string{
		"嫌い", "悪い", "最悪", "微妙", "不便", "残念", "つまらない", "高すぎ", "ひどい", "詐欺",
	}
)

// classifySentiment scores each text by lexicon hits and maps the mean
// net polarity onto the five-category scale.
func classifySentiment(texts []string) contracts.Sentiment {
	if len(texts) == 0 {
		return contracts.SentimentNeutral
	}

	net := 0
	for _, text := range texts {
		score := 0
		for _, w := range positiveWords {
			if strings.Contains(text, w) {
				score++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(text, w) {
				score--
			}
		}
		switch {
		case score > 0:
			net++
		case score < 0:
			net--
		}
	}

	polarity := float64(net) / float64(len(texts))
	switch {
	case polarity >= 0.5:
		return contracts.SentimentVeryPositive
	case polarity >= 0.1:
		return contracts.SentimentSlightlyPositive
	case polarity <= -0.5:
		return contracts.SentimentVeryNegative
	case polarity <= -0.1:
		return contracts.SentimentSlightlyNegative
	default:
		return contracts.SentimentNeutral
	}
}
