package devserver

import "fmt"

// CompanyPrompt is the research request the agent receives for a company.
func CompanyPrompt(company string) string {
	return fmt.Sprintf(`Research the company %q thoroughly.

Please find and summarize:
1. Company overview (what they do, industry, size)
2. Recent news and developments
3. Key products or services
4. Technology stack (if detectable)
5. Key decision makers (C-suite, VP-level)
6. Any recent funding or financial news

Provide a comprehensive research report that would help an SDR prepare for outreach.`, company)
}

// ProspectPrompt is the research request the agent receives for a person.
// company is optional context.
func ProspectPrompt(prospect, company string) string {
	companyContext := ""
	if company != "" {
		companyContext = " at " + company
	}

	return fmt.Sprintf(`Research the prospect %q%s thoroughly.

Please find and summarize:
1. Current role and responsibilities
2. Professional background and experience
3. Education and certifications
4. Recent public activity (posts, articles, speaking)
5. Professional interests and focus areas
6. Any personal details that could help personalize outreach

Provide a comprehensive prospect profile that would help craft a personalized outreach message.`, prospect, companyContext)
}
