package interview

import (
	"strings"
	"testing"
)

func TestBuildBankPrompt(t *testing.T) {
	systemPrompt, userPrompt := BuildBankPrompt("互联网", "后端工程师", 10)
	for _, want := range []string{"互联网", "后端工程师", "behavior", "technical", "situational", "motivation"} {
		if !strings.Contains(systemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if !strings.Contains(userPrompt, "10") {
		t.Errorf("user prompt missing the count: %q", userPrompt)
	}
}

func TestBuildInterviewQuestionsPromptFirstBatch(t *testing.T) {
	systemPrompt, _ := BuildInterviewQuestionsPrompt(BatchParams{
		TargetRole:   "产品经理",
		IsFirstBatch: true,
		BatchSize:    5,
	})
	if !strings.Contains(systemPrompt, FirstQuestion) {
		t.Error("first batch prompt missing the fixed opener")
	}
	if !strings.Contains(systemPrompt, "未提供简历信息") || !strings.Contains(systemPrompt, "未提供岗位描述") {
		t.Error("missing defaults for absent resume and job description")
	}
}

func TestBuildInterviewQuestionsPromptLaterBatch(t *testing.T) {
	systemPrompt, _ := BuildInterviewQuestionsPrompt(BatchParams{
		TargetRole:        "产品经理",
		BatchSize:         5,
		ExistingQuestions: []string{"第一题", "第二题"},
	})
	if strings.Contains(systemPrompt, FirstQuestion) {
		t.Error("later batch prompt must not carry the fixed opener")
	}
	if !strings.Contains(systemPrompt, "已生成的问题") || !strings.Contains(systemPrompt, "第二题") {
		t.Error("later batch prompt missing the dedup list")
	}
}

func TestBuildReferenceAnswerPrompt(t *testing.T) {
	systemPrompt, userPrompt := BuildReferenceAnswerPrompt("请自我介绍", "后端工程师", "三年Go开发", "")
	if !strings.Contains(systemPrompt, "三年Go开发") {
		t.Error("system prompt missing resume text")
	}
	if !strings.Contains(systemPrompt, "未提供岗位描述") {
		t.Error("system prompt missing job description default")
	}
	if !strings.Contains(userPrompt, "请自我介绍") {
		t.Error("user prompt missing the question")
	}
}
