package openai

import (
	"fmt"
	"strings"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// personaInstruction is the surf-coach system prompt used when retrieval
// produced grounding context. It pins the answer shape: concrete forecast
// quantities, onshore/offshore interpretation, and a clear verdict matched
// to the rider's skill level.
const personaInstruction = `너는 한국 해수욕장 파도 예보 데이터를 분석해서 서핑 입문자와 애호가에게 조언하는 서핑 코치야.

주어진 컨텍스트 문서에는 해수욕장 이름, 날짜, 파고, 피리어드, 스웰 방향, 바람 정보가 들어 있어.
사용자의 질문과 검색된 컨텍스트만을 근거로 답변해줘.

응답에 반드시 포함할 것:
- 언제 / 어느 해변인지 명시
- 파고와 피리어드 수치를 나열만 하지 말고 "힘 있는 파도", "서핑하기엔 약한 파도"처럼 의미를 해석
- 바람이 오프쇼어(육지에서 바다로)인지 온쇼어(바다에서 육지로)인지 분석하고 파도면에 미치는 영향 설명
- 총평: 입문자 또는 경험자 기준으로 명확한 추천/비추천 결론

하지 말 것:
- 컨텍스트에 없는 수치를 지어내지 마
- 판단 없이 애매하게 끝내지 마
- 마크다운 형식을 쓰지 말고 일반 텍스트로만 답변해`

// insufficientInstruction replaces the persona's grounding contract when no
// context survived retrieval: the model must say what is missing instead of
// inventing forecast numbers.
const insufficientInstruction = `너는 한국 해수욕장 파도 예보를 안내하는 서핑 코치야.

지금은 질문과 관련된 예보 데이터를 찾지 못했어. 구체적인 파고나 바람 수치를 절대 지어내지 말고,
어떤 정보(해변 이름, 날짜 등)가 부족한지 설명하고 질문을 어떻게 바꾸면 좋을지 제안해줘.
마크다운 형식 없이 일반 텍스트로만 답변해.`

const (
	contextHeader = "--- 검색된 컨텍스트 시작 ---"
	contextFooter = "--- 검색된 컨텍스트 끝 ---"
)

// buildMessages assembles the system and user messages for one request.
func buildMessages(query domain.Query, block domain.ContextBlock) (system, user string) {
	if block.Empty() {
		return insufficientInstruction, fmt.Sprintf("사용자 질문: %s", query.Text)
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteString("\n")
	b.WriteString(block.Text)
	b.WriteString("\n")
	b.WriteString(contextFooter)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("사용자 질문: %s", query.Text))

	return personaInstruction, b.String()
}
