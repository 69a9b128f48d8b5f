package insight

// analystSystemPrompt frames every extraction call.
const analystSystemPrompt = `You are a business intelligence analyst. You analyze website content and extract accurate, concise business information.`

// defaultInsightsPrompt is the user prompt template for default extraction.
// The %s placeholder is replaced with the website content.
const defaultInsightsPrompt = `Analyze the following website content and extract key business insights.

Website Content:
%s

Please extract and provide the following information in JSON format:
{
    "industry": "Primary industry/sector (infer if not explicitly stated)",
    "company_size": "Approximate size (small/medium/large or employee count range if mentioned)",
    "location": "Headquarters or primary location (if mentioned)",
    "usp": "Unique Selling Proposition - what makes this company stand out",
    "products_services": "Concise summary of main offerings",
    "target_audience": "Primary customer demographic (infer from content)",
    "contact_info": {
        "emails": ["list of email addresses found"],
        "phones": ["list of phone numbers found"],
        "social_media": ["list of social media links found"]
    }
}

Rules:
- Use "Not specified" if information is not available
- Make reasonable inferences based on content context
- Keep answers concise but informative
- Extract contact information accurately
- Return valid JSON only`

// customQuestionsPrompt is the user prompt template for custom-questions
// extraction. The first %s is the website content, the second the bulleted
// question list.
const customQuestionsPrompt = `Analyze the following website content and answer the specific questions provided.

Website Content:
%s

Questions to answer:
%s

Please provide detailed, accurate answers based on the content. If information is not available, state "Not specified" or "Cannot be determined from the content".`

// conversationSystemPrompt frames conversational answering.
const conversationSystemPrompt = `You are a helpful assistant that answers questions about websites based on their content.

Please provide a helpful, accurate answer based on the website content and conversation history.
If the information is not available in the content, clearly state that.
Be conversational and informative in your response.`
