package interview

import (
	"fmt"
	"strings"
)

// FirstQuestion is the fixed opener used for the first batch of ad-hoc
// generated questions.
const FirstQuestion = "你好！欢迎参加今天的面试。我是招才，今天将由我来主持你的面试。首先，请你简单地做个自我介绍吧。"

// FallbackQuestions is served when the model response for an ad-hoc batch
// cannot be parsed.
var FallbackQuestions = []string{
	FirstQuestion,
	"请介绍一下你在相关领域的工作经验。",
	"你认为自己最大的优势是什么？",
	"请描述一次你解决复杂问题的经历。",
	"你对这个岗位有什么期望？",
}

// BuildBankPrompt produces the system/user prompt pair asking the model for
// count labelled questions for the question bank. The response contract is
// one question per line in the form "[type] text".
func BuildBankPrompt(industry, role string, count int) (systemPrompt, userPrompt string) {
	systemPrompt = fmt.Sprintf(`你是一名专业的HR专家，专门为%s行业的%s岗位设计面试问题。

请生成%d个高质量的面试问题，要求：
1. 问题类型多样化，包括：
   - behavior: 行为与经验类问题（如"请分享一个你处理过的困难项目"）
   - technical: 专业知识与技能类问题（如"请解释一下XXX技术的原理"）
   - situational: 情景假设类问题（如"如果遇到XXX情况，你会如何处理"）
   - motivation: 动机与匹配度问题（如"为什么选择我们公司"）

2. 每个问题应该：
   - 简洁明了，适合实际面试场景
   - 针对%s岗位的特点设计
   - 能够有效评估候选人的能力

3. 输出格式：每个问题单独一行，格式为：[类型] 问题内容

示例：
[behavior] 请分享一个你在团队中解决冲突的经历
[technical] 请解释一下你熟悉的编程语言的特点
[situational] 如果项目deadline提前一周，你会如何调整计划
[motivation] 为什么选择这个行业和岗位`, industry, role, count, role)

	userPrompt = fmt.Sprintf("请为%s行业的%s岗位生成%d个面试问题，按照上述要求输出。", industry, role, count)
	return systemPrompt, userPrompt
}

// BatchParams carries the context for an ad-hoc question batch.
type BatchParams struct {
	TargetRole        string
	ResumeText        string
	JobDescription    string
	BatchSize         int
	IsFirstBatch      bool
	ExistingQuestions []string
}

// BuildInterviewQuestionsPrompt produces the prompt pair for an ad-hoc batch
// of conversational questions. The model is asked for a JSON string array.
func BuildInterviewQuestionsPrompt(p BatchParams) (systemPrompt, userPrompt string) {
	if p.BatchSize <= 0 {
		p.BatchSize = 5
	}

	var existing string
	if len(p.ExistingQuestions) > 0 {
		var b strings.Builder
		b.WriteString("\n已生成的问题（避免重复）：\n")
		for i, q := range p.ExistingQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		existing = strings.TrimRight(b.String(), "\n")
	}

	firstRule := "1. 不要包含自我介绍问题，这是后续批次的问题生成"
	if p.IsFirstBatch {
		firstRule = "1. 首题固定：「" + FirstQuestion + "」"
	}

	systemPrompt = fmt.Sprintf(`你是一名专业AI面试官「招才」，扮演资深HR专家。请基于以下背景信息生成高质量的面试问题。

面试背景：
1. 目标岗位：%s
2. 候选人简历：%s
3. 岗位描述：%s%s

生成要求：
%s
2. 问题类型配比（建议）：
   - 行为经验类（40%%）：针对简历细节提问
   - 专业知识类（30%%）：考察岗位硬技能
   - 情景假设类（30%%）：设置典型工作场景
3. 问题总数：%d个，保持自然对话流
4. 问题要具体、有针对性，避免泛泛而谈
5. 语言要专业但友好，符合面试官身份
6. 确保每个问题都是独特的，避免重复`,
		p.TargetRole,
		orDefault(p.ResumeText, "未提供简历信息"),
		orDefault(p.JobDescription, "未提供岗位描述"),
		existing,
		firstRule,
		p.BatchSize,
	)

	userPrompt = fmt.Sprintf("请生成%d个面试问题，以JSON数组格式返回，每个问题为一个字符串元素。", p.BatchSize)
	return systemPrompt, userPrompt
}

// BuildReferenceAnswerPrompt produces the prompt pair for a streamed
// reference answer to one interview question.
func BuildReferenceAnswerPrompt(question, targetRole, resumeText, jobDescription string) (systemPrompt, userPrompt string) {
	systemPrompt = fmt.Sprintf(`你正在参加%s的面试。请根据以下背景信息生成专业、自然的口语化回答。

面试背景：
1. 应聘岗位：%s
2. 我的简历：%s
3. 岗位要求：%s

生成要求：
1. 回答需体现专业性且符合实际经验
2. 语言保持口语化，避免书面化表达
3. 重点突出与岗位的匹配度
4. 长度适中（约150-300字）
5. 回答要具体、有实例，避免空洞
6. 使用纯文本格式，不要使用任何Markdown格式符号（如**、*、#等）`,
		targetRole,
		targetRole,
		orDefault(resumeText, "未提供简历信息"),
		orDefault(jobDescription, "未提供岗位描述"),
	)

	userPrompt = fmt.Sprintf(`面试问题：%s

请生成一个高质量的参考答案。注意：请使用纯文本格式，不要使用任何Markdown格式符号（如**、*、#等），直接输出回答内容即可。`, question)
	return systemPrompt, userPrompt
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
