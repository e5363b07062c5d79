/*
The package pdu decodes SMS PDUs into an ordered list of labeled fields. The implementation follows:
  [TP]  3GPP TS 23.040 (formerly GSM 03.40), Technical realization of the Short Message Service
  [DCS] 3GPP TS 23.038 (formerly GSM 03.38), Alphabets and language-specific information
  [WSP] WAP-230-WSP, Wireless Session Protocol

Abbreviations:
PDU: Protocol Data Unit
SMSC: Short Message Service Centre
UDH: User Data Header
IE: Information Element
EMS: Enhanced Messaging Service

Only SMS-DELIVER and SMS-SUBMIT PDUs are decoded. Problems inside a syntactically valid PDU never
abort the decoding, they are reported as additional fields marked as violation.
*/
package pdu
