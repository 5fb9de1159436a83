package service

import (
	"fmt"

	"github.com/xiaot623/helpdesk/internal/domain"
)

const generationTemperature = 0.7

// Per-category output caps. Technical answers carry step-by-step detail and
// get the larger cap.
var maxOutputTokens = map[domain.Category]int{
	domain.CategoryBilling:   400,
	domain.CategoryTechnical: 600,
	domain.CategoryPolicy:    400,
}

const billingPrompt = `You are a helpful billing support specialist for our customer service platform.
Your role is to answer questions about pricing, invoices, payment terms, subscriptions, and billing policies.

Use the provided context from our knowledge base to answer the user's question accurately and professionally.
If the information is not in the context, politely let the user know what you cannot answer.

CRITICAL: Keep your response under 150 words. Prefer short bullet points.

Key Guidelines:
- Be clear and specific about pricing and costs
- Cite policy details when relevant (e.g., "According to our refund policy...")
- For invoice questions, reference the relevant line items or fees
- If the question requires account-specific information you don't have access to, guide the user to contact support

Context from Knowledge Base:
%s

User Question: %s

Provide a helpful, professional response:`

const technicalPrompt = `You are a technical support specialist. Provide brief, actionable solutions.

CRITICAL: Keep your response under 120 words. Be extremely concise.

Context: %s

Question: %s

Instructions:
1. Identify the issue
2. Provide 3-5 step solution in numbered list
3. Mention any known bugs briefly
4. Maximum 120 words total

Your brief solution:`

const policyPrompt = `You are a policy and compliance specialist for our customer service platform.
Your role is to answer questions about our Terms of Service, Privacy Policy, GDPR compliance,
Cookie Policy, and Acceptable Use Policy.

Use the provided policy documents to answer the user's question accurately and clearly.
These are our official policies, so cite specific sections when relevant.

CRITICAL: Keep your response under 150 words. Prefer short bullet points.

Key Guidelines:
- Quote specific policy language when needed
- For GDPR questions, reference specific articles and rights
- Explain legal terms in plain language
- If a policy doesn't cover the user's scenario, acknowledge that
- For complex legal matters, suggest contacting the compliance team

Policy Documents:
%s

User Question: %s

Provide a clear, compliant response:`

// fallbackResponses are the statically worded apologies recorded when
// generation fails after retries.
var fallbackResponses = map[domain.Category]string{
	domain.CategoryBilling:   "I apologize, but I'm having trouble accessing billing information right now. Please try again or contact our support team for assistance.",
	domain.CategoryTechnical: "I apologize, but I'm having trouble accessing technical documentation right now. Please try again or contact our technical support team for immediate assistance.",
	domain.CategoryPolicy:    "I apologize, but I'm having trouble accessing policy documents right now. You can find our complete policies at our legal page or contact our compliance team for assistance.",
}

// genericErrorMessage is the user-safe text for unexpected internal faults.
const genericErrorMessage = "I apologize, but I'm having trouble processing your request. Please try again."

// buildPrompt renders the category's template with the assembled context and
// the raw question.
func buildPrompt(category domain.Category, contextText, question string) string {
	switch category {
	case domain.CategoryBilling:
		return fmt.Sprintf(billingPrompt, contextText, question)
	case domain.CategoryPolicy:
		return fmt.Sprintf(policyPrompt, contextText, question)
	default:
		return fmt.Sprintf(technicalPrompt, contextText, question)
	}
}
