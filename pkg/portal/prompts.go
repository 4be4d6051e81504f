package portal

const locatorSystemPrompt = `You locate UI controls on pages of the SIGAA academic portal.
Given a description of a control and the page markup, reply with a single CSS selector
matching that control. Reply with the selector only, no prose. If no element matches,
reply with the single word: none`

const extractionSystemPrompt = `You extract structured data from pages of the SIGAA academic
portal of UFPA. The page text is in Brazilian Portuguese. Reply with JSON only, matching the
requested shape exactly. Use null for values that are not present on the page.`

const gradesPrompt = `Extract every course grade on this page as a JSON array of objects with
fields "disciplina", "nota_final", "situacao" and "periodo".

Page text:
%s`

const transcriptPrompt = `Extract the complete academic transcript on this page as a JSON array
of objects with fields "codigo", "nome", "creditos" (integer), "nota", "situacao" and "periodo".

Page text:
%s`

const enrollmentPrompt = `Extract the current enrollment information on this page (enrolled
courses, times and status) as a JSON object.

Page text:
%s`

const generalPrompt = `Extract all relevant information on this SIGAA page as a JSON object.

Page text:
%s`

const notificationsPrompt = `Extract the text of every announcement, warning and unread message
on this page as a JSON array of strings.

Page text:
%s`

const schedulePrompt = `Extract the complete class schedule on this page as a JSON object with a
"classes" array; each entry has "disciplina", "dia", "horario", "professor" and "sala".

Page text:
%s`

const taskSystemPrompt = `You drive a browser through the SIGAA academic portal of UFPA, one
action at a time. Given a task and the current page markup, reply with JSON only, in one of
these shapes:
  {"action": "click", "selector": "<css selector>"}
  {"action": "fill", "selector": "<css selector>", "value": "<text>"}
  {"action": "goto", "url": "<absolute url>"}
  {"action": "done"}
Use "done" when the task is complete or cannot proceed.`

const taskStepPrompt = `Task: %s

Steps taken so far: %d

Current page (%s):
%s`
