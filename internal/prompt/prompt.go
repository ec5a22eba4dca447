// Package prompt assembles the Chinese prompts sent to text providers.
// The label formats here are load-bearing: replies are parsed line by
// line against the exact labels the templates demand.
package prompt

import (
	"fmt"

	"SocialForge/pkg/textutil"
)

const (
	// maxDigestRunes caps the digest excerpt passed to ranking.
	maxDigestRunes = 12000
	// maxArticleRunes caps the article excerpt passed to per-article review.
	maxArticleRunes = 500
)

const rankTemplate = `你是一个科技自媒体博主。分析以下 RSS 每日摘要中的所有文章，给每篇文章的"小红书传播力"打分（1-10分）。

评分标准：
- 话题新鲜度和争议性（能引发讨论）
- 与普通人的相关性（不只是开发者关心）
- 标题党潜力（能写出吸引人的标题）
- 科普价值（能用简单语言解释复杂概念）

严格按以下 JSON 格式输出，不要加其他内容：
[
  {"score": 9, "title": "原文标题", "topic": "用一句话概括话题", "angle": "建议的切入角度"},
  ...
]

按分数从高到低排序。只输出 JSON 数组。

RSS 摘要：
%s
`

const generateTemplate = `你是一个科技自媒体博主，风格参考小红书上的"硅星人"和"Nifty"。

针对以下话题生成一条小红书图文笔记：
话题：%s
切入角度：%s
原文摘要：%s

要求：
- 标题：爆款公式，15字以内，不要用emoji
- 副标题：对标题的补充说明，15-25字，让读者更想点进来
- 正文 400-600 字，口语化聊天风格：
  * 第一句是 hook
  * 用"你"直接对话
  * 短段落，每段2-3句
  * 有观点有态度
  * 最后抛问题引评论
- 6张知识卡片，每张有小标题(8字内)和正文(100-150字，要有具体细节、数据和例子，写得丰富饱满)
- 5-8个 hashtag

严格按以下格式输出：

标题: [标题]
副标题: [副标题，15-25字]
正文:
[正文内容]
标签: [#tag1 #tag2 ...]
卡片1标题: [小标题]
卡片1内容: [正文100-150字，丰富饱满]
卡片2标题: [小标题]
卡片2内容: [正文100-150字]
卡片3标题: [小标题]
卡片3内容: [正文100-150字]
卡片4标题: [小标题]
卡片4内容: [正文100-150字]
卡片5标题: [小标题]
卡片5内容: [正文100-150字]
卡片6标题: [小标题]
卡片6内容: [正文100-150字]
`

const reviewTemplate = `请完成以下任务：
1. 将标题翻译成中文
2. 根据以下内容生成 50-100 字的中文摘要
3. 给这篇文章的"小红书传播力"打分（1-10分），考虑话题新鲜度、与普通人的相关性、标题党潜力、科普价值
4. 如果分数>=7，建议一个小红书切入角度

标题: %s
内容: %s

请按以下格式输出：
翻译: [中文标题]
摘要: [50-100字的中文摘要]
评分: [1-10的数字]
角度: [切入角度，如果评分<7则写"无"]`

// Rank builds the whole-digest scoring prompt.
func Rank(digest string) string {
	return fmt.Sprintf(rankTemplate, textutil.TruncateRunes(digest, maxDigestRunes))
}

// Generate builds the per-topic note generation prompt.
func Generate(topic, angle, summary string) string {
	return fmt.Sprintf(generateTemplate, topic, angle, summary)
}

// Review builds the per-article translate/score prompt.
func Review(title, content string) string {
	if content == "" {
		content = "无内容预览"
	}
	return fmt.Sprintf(reviewTemplate, title, textutil.TruncateRunes(content, maxArticleRunes))
}
